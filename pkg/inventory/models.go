package inventory

import (
	"time"
)

// Condition is the physical-usability state of a resource.
type Condition string

const (
	ConditionServiceable      Condition = "Serviceable"
	ConditionUnderMaintenance Condition = "Under Maintenance"
	ConditionCondemned        Condition = "Condemned"
)

// Severity classifies a damage report.
type Severity string

const (
	SeverityMinor     Severity = "minor"
	SeverityModerate  Severity = "moderate"
	SeveritySevere    Severity = "severe"
	SeverityTotalLoss Severity = "total_loss"
)

// RequestCategory classifies a maintenance request.
type RequestCategory string

const (
	CategoryRepair  RequestCategory = "repair"
	CategorySupply  RequestCategory = "supply"
	CategoryRoutine RequestCategory = "routine"
)

// Priority of a maintenance request.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// RequestStatus is the workflow state of a maintenance request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusApproved   RequestStatus = "approved"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusRejected   RequestStatus = "rejected"
	StatusCancelled  RequestStatus = "cancelled"
)

// Ledger event types. Tag events use TagEventPrefix + canonical tag name.
const (
	EventUsage           = "usage"
	EventDamageReport    = "damage_report"
	EventSupplyRequest   = "supply_request"
	EventRepairRequest   = "repair_request"
	EventRoutineRequest  = "routine_request"
	EventRepairCompleted = "repair_completed"
	EventRestock         = "restock"

	TagEventPrefix = "tag:"
)

// Resource is the mutable inventory row every ledger event references.
// Resources are deactivated, never deleted.
type Resource struct {
	ID                string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Station           string    `gorm:"column:station;index:idx_resource_station;default:default;not null" json:"station"`
	Name              string    `gorm:"column:name;not null" json:"name"`
	ResourceType      string    `gorm:"column:resource_type;index" json:"resourceType"`
	Category          string    `gorm:"column:category;index" json:"category"`
	Quantity          int       `gorm:"column:quantity;not null" json:"quantity"`
	AvailableQuantity int       `gorm:"column:available_quantity;not null" json:"availableQuantity"`
	Unit              string    `gorm:"column:unit" json:"unit,omitempty"`
	Condition         Condition `gorm:"column:condition;default:Serviceable;not null" json:"condition"`
	MinStockLevel     int       `gorm:"column:min_stock_level" json:"minStockLevel"`
	ReorderQuantity   int       `gorm:"column:reorder_quantity" json:"reorderQuantity"`
	MaintenanceNotes  string    `gorm:"column:maintenance_notes;type:text" json:"maintenanceNotes,omitempty"`
	Active            bool      `gorm:"column:active;default:true;not null" json:"active"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Resource) TableName() string { return "resources" }

// LedgerEntry is an immutable service-history row: one row per business event
// against a resource. Structured facts live in typed columns rather than being
// scraped back out of the notes blob.
type LedgerEntry struct {
	ID                 string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Station            string    `gorm:"column:station;index:idx_ledger_station_time,priority:1;default:default;not null" json:"station"`
	ResourceID         string    `gorm:"column:resource_id;index:idx_ledger_resource_time,priority:1;not null" json:"resourceId"`
	EventType          string    `gorm:"column:event_type;index;not null" json:"eventType"`
	Actor              string    `gorm:"column:actor;not null" json:"actor"`
	Quantity           int       `gorm:"column:quantity" json:"quantity,omitempty"`
	Category           string    `gorm:"column:category" json:"category,omitempty"`
	Severity           Severity  `gorm:"column:severity" json:"severity,omitempty"`
	IncidentID         string    `gorm:"column:incident_id;index" json:"incidentId,omitempty"`
	ApparatusID        string    `gorm:"column:apparatus_id" json:"apparatusId,omitempty"`
	Notes              string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	ResultingCondition Condition `gorm:"column:resulting_condition" json:"resultingCondition,omitempty"`
	Cost               float64   `gorm:"column:cost" json:"cost,omitempty"`
	LaborHours         float64   `gorm:"column:labor_hours" json:"laborHours,omitempty"`
	RequestID          string    `gorm:"column:request_id;index" json:"requestId,omitempty"`
	CreatedAt          time.Time `gorm:"column:created_at;index:idx_ledger_resource_time,priority:2;index:idx_ledger_station_time,priority:2;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (LedgerEntry) TableName() string { return "service_ledger" }

// ResourceTag is a normalized tag row. The (resource_id, name) unique index is
// the single source of truth for duplicate detection; the legacy notes line and
// the tag: ledger entry are kept in sync with it inside the same transaction.
type ResourceTag struct {
	ID         string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	ResourceID string    `gorm:"column:resource_id;uniqueIndex:idx_tag_resource_name,priority:1;not null" json:"resourceId"`
	Name       string    `gorm:"column:name;uniqueIndex:idx_tag_resource_name,priority:2;not null" json:"name"`
	Category   string    `gorm:"column:category" json:"category,omitempty"`
	Color      string    `gorm:"column:color" json:"color,omitempty"`
	Notes      string    `gorm:"column:notes" json:"notes,omitempty"`
	CreatedBy  string    `gorm:"column:created_by" json:"createdBy"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (ResourceTag) TableName() string { return "resource_tags" }

// MaintenanceRequest is a queued request for repair or resupply, distinct from
// the ledger entry that logs it.
type MaintenanceRequest struct {
	ID            string          `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Station       string          `gorm:"column:station;index:idx_request_station_status,priority:1;default:default;not null" json:"station"`
	ResourceID    string          `gorm:"column:resource_id;index;not null" json:"resourceId"`
	RequestedBy   string          `gorm:"column:requested_by;not null" json:"requestedBy"`
	Category      RequestCategory `gorm:"column:category;not null" json:"category"`
	Priority      Priority        `gorm:"column:priority;default:medium;not null" json:"priority"`
	Description   string          `gorm:"column:description;type:text" json:"description,omitempty"`
	Status        RequestStatus   `gorm:"column:status;index:idx_request_station_status,priority:2;default:pending;not null" json:"status"`
	Quantity      int             `gorm:"column:quantity" json:"quantity,omitempty"`
	EstimatedCost float64         `gorm:"column:estimated_cost" json:"estimatedCost,omitempty"`
	NeededBy      *time.Time      `gorm:"column:needed_by" json:"neededBy,omitempty"`
	ResolvedBy    string          `gorm:"column:resolved_by" json:"resolvedBy,omitempty"`
	Resolution    string          `gorm:"column:resolution" json:"resolution,omitempty"`
	CompletedAt   *time.Time      `gorm:"column:completed_at" json:"completedAt,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (MaintenanceRequest) TableName() string { return "maintenance_requests" }

// IsTerminal returns true if the request is in a terminal workflow state.
func (r *MaintenanceRequest) IsTerminal() bool {
	switch r.Status {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

package inventory

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateResourceRequest is the payload for registering a new resource.
type CreateResourceRequest struct {
	Name              string `json:"name"`
	ResourceType      string `json:"resourceType"`
	Category          string `json:"category"`
	Quantity          int    `json:"quantity"`
	AvailableQuantity *int   `json:"availableQuantity,omitempty"`
	Unit              string `json:"unit"`
	MinStockLevel     int    `json:"minStockLevel"`
	ReorderQuantity   int    `json:"reorderQuantity"`
	Notes             string `json:"notes"`
}

// Validate implements request validation.
func (r CreateResourceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&r.MinStockLevel, validation.Min(0)),
		validation.Field(&r.ReorderQuantity, validation.Min(0)),
	)
}

// UsageRequest is the payload for logging resource usage.
type UsageRequest struct {
	QuantityUsed int    `json:"quantityUsed"`
	Category     string `json:"category"`
	IncidentID   string `json:"incidentId"`
	ApparatusID  string `json:"apparatusId"`
	Notes        string `json:"notes"`
}

// Validate implements request validation.
func (r UsageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.QuantityUsed, validation.Required, validation.Min(1)),
		validation.Field(&r.Category, validation.Required),
	)
}

// DamageRequest is the payload for reporting equipment damage.
type DamageRequest struct {
	Category         string   `json:"category"`
	Severity         Severity `json:"severity"`
	AffectedQuantity int      `json:"affectedQuantity"`
	Description      string   `json:"description"`
	EstimatedCost    float64  `json:"estimatedCost"`
}

// Validate implements request validation.
func (r DamageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Severity, validation.Required,
			validation.In(SeverityMinor, SeverityModerate, SeveritySevere, SeverityTotalLoss)),
		validation.Field(&r.AffectedQuantity, validation.Required, validation.Min(1)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.EstimatedCost, validation.Min(0.0)),
	)
}

// SubmitRequestBody is the payload for filing a supply or repair request.
type SubmitRequestBody struct {
	ResourceID    string          `json:"resourceId"`
	Category      RequestCategory `json:"category"`
	Quantity      int             `json:"quantity"`
	Justification string          `json:"justification"`
	Priority      Priority        `json:"priority"`
	EstimatedCost float64         `json:"estimatedCost"`
	NeededBy      *time.Time      `json:"neededBy,omitempty"`
}

// Validate implements request validation.
func (r SubmitRequestBody) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ResourceID, validation.Required),
		validation.Field(&r.Category, validation.Required,
			validation.In(CategorySupply, CategoryRepair)),
		validation.Field(&r.Justification, validation.Required),
		validation.Field(&r.Priority,
			validation.In(PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical)),
		validation.Field(&r.EstimatedCost, validation.Min(0.0)),
	)
}

// AddTagRequest is the payload for attaching a tag.
type AddTagRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Notes    string `json:"notes"`
}

// Validate implements request validation.
func (r AddTagRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
	)
}

// RequestActionBody is the payload for workflow actions on a request.
type RequestActionBody struct {
	Note              string    `json:"note"`
	RestoredCondition Condition `json:"restoredCondition"`
	ReceivedQuantity  int       `json:"receivedQuantity"`
	ActualCost        float64   `json:"actualCost"`
	LaborHours        float64   `json:"laborHours"`
}

// Validate implements request validation.
func (r RequestActionBody) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RestoredCondition,
			validation.In(ConditionServiceable, ConditionUnderMaintenance, ConditionCondemned)),
		validation.Field(&r.ReceivedQuantity, validation.Min(0)),
		validation.Field(&r.ActualCost, validation.Min(0.0)),
		validation.Field(&r.LaborHours, validation.Min(0.0)),
	)
}

// ResourceList is a paginated resource listing.
type ResourceList struct {
	Resources     []Resource `json:"resources"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

// LedgerList is a paginated ledger listing.
type LedgerList struct {
	Entries       []LedgerEntry `json:"entries"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
	TotalSize     int64         `json:"totalSize"`
}

// RequestList is a paginated maintenance-request listing.
type RequestList struct {
	Requests      []MaintenanceRequest `json:"requests"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

// TagList lists the tags on a resource.
type TagList struct {
	Tags []ResourceTag `json:"tags"`
}

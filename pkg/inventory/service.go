package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service executes the state-changing inventory operations. Every operation
// runs inside a single database transaction: validation, the resource
// mutation, the ledger append and the linked maintenance request commit
// together or not at all.
//
// Concurrent callers are serialized per resource row: the row is locked with
// SELECT ... FOR UPDATE where the dialect supports it, and the quantity
// mutation itself is a conditional UPDATE guarded on available_quantity, so two
// racing requests can never jointly overdraw a resource.
type Service struct {
	db      *gorm.DB
	metrics MetricsSink
}

// NewService creates a new Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// MetricsSink receives a signal for each committed operation. Implemented by
// the server's Prometheus wiring; nil disables instrumentation.
type MetricsSink interface {
	UsageLogged()
	DamageReported()
	RequestFiled(category string)
}

// SetMetrics attaches a metrics sink. Not safe to call after the service is
// in use.
func (s *Service) SetMetrics(m MetricsSink) {
	s.metrics = m
}

// UsageInput describes a usage-logging operation.
type UsageInput struct {
	Station     string
	ResourceID  string
	Actor       string
	Quantity    int
	Category    string
	IncidentID  string
	ApparatusID string
	Notes       string
}

// OperationResult reports a committed operation: the resource as mutated plus
// the identifiers of the records the operation created.
type OperationResult struct {
	Resource      *Resource `json:"resource"`
	LedgerEntryID string    `json:"ledgerEntryId"`
	RequestID     string    `json:"requestId,omitempty"`
	Message       string    `json:"message"`
}

// LogUsage records the consumption of quantity units of a resource. The
// resource must be active and hold at least that many available units, else
// the operation fails with ErrInsufficientQuantity and no effect. On success
// available_quantity is decremented and a ledger entry plus a linked
// routine maintenance request are created, all in one transaction.
func (s *Service) LogUsage(ctx context.Context, in UsageInput) (*OperationResult, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity used must be a positive integer, got %d", in.Quantity)
	}

	var result OperationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := lockResource(tx, in.Station, in.ResourceID)
		if err != nil {
			return err
		}
		if !res.Active {
			return fmt.Errorf("resource %s: %w", res.ID, ErrResourceInactive)
		}
		if in.Quantity > res.AvailableQuantity {
			return fmt.Errorf("requested %d, available %d: %w", in.Quantity, res.AvailableQuantity, ErrInsufficientQuantity)
		}

		if err := decrementAvailable(tx, res.ID, in.Quantity); err != nil {
			return err
		}

		now := time.Now()
		req := &MaintenanceRequest{
			ID:          uuid.New().String(),
			Station:     res.Station,
			ResourceID:  res.ID,
			RequestedBy: in.Actor,
			Category:    CategoryRoutine,
			Priority:    PriorityLow,
			Description: fmt.Sprintf("Usage log: %d %s of %s (%s)", in.Quantity, res.Unit, res.Name, in.Category),
			Status:      StatusCompleted,
			Quantity:    in.Quantity,
			ResolvedBy:  in.Actor,
			CompletedAt: &now,
		}
		if err := tx.Create(req).Error; err != nil {
			return fmt.Errorf("create usage request record: %w", err)
		}

		entry := &LedgerEntry{
			ID:                 uuid.New().String(),
			Station:            res.Station,
			ResourceID:         res.ID,
			EventType:          EventUsage,
			Actor:              in.Actor,
			Quantity:           in.Quantity,
			Category:           in.Category,
			IncidentID:         in.IncidentID,
			ApparatusID:        in.ApparatusID,
			Notes:              in.Notes,
			ResultingCondition: res.Condition,
			RequestID:          req.ID,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("append usage ledger entry: %w", err)
		}

		res.AvailableQuantity -= in.Quantity
		result = OperationResult{
			Resource:      res,
			LedgerEntryID: entry.ID,
			RequestID:     req.ID,
			Message:       fmt.Sprintf("Logged usage of %d %s; %d remaining", in.Quantity, res.Unit, res.AvailableQuantity),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.UsageLogged()
	}
	return &result, nil
}

// DamageInput describes a damage-report operation.
type DamageInput struct {
	Station          string
	ResourceID       string
	Actor            string
	Category         string
	Severity         Severity
	AffectedQuantity int
	Description      string
	EstimatedCost    float64
}

// ReportDamage records equipment damage. Severity deterministically maps to
// the new condition (minor/moderate -> Under Maintenance, severe/total_loss ->
// Condemned). Atomically: available_quantity is decremented by the affected
// quantity, the condition is overwritten per the mapping, a structured line is
// appended to maintenance_notes, a pending repair request is filed and a
// ledger entry duplicates the facts for reporting.
func (s *Service) ReportDamage(ctx context.Context, in DamageInput) (*OperationResult, error) {
	outcome, ok := OutcomeForSeverity(in.Severity)
	if !ok {
		return nil, fmt.Errorf("unknown damage severity %q", in.Severity)
	}
	if in.AffectedQuantity <= 0 {
		return nil, fmt.Errorf("affected quantity must be a positive integer, got %d", in.AffectedQuantity)
	}

	var result OperationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := lockResource(tx, in.Station, in.ResourceID)
		if err != nil {
			return err
		}
		if !res.Active {
			return fmt.Errorf("resource %s: %w", res.ID, ErrResourceInactive)
		}
		if in.AffectedQuantity > res.Quantity || in.AffectedQuantity > res.AvailableQuantity {
			return fmt.Errorf("affected %d exceeds available %d of %d total: %w",
				in.AffectedQuantity, res.AvailableQuantity, res.Quantity, ErrInsufficientQuantity)
		}

		if err := decrementAvailable(tx, res.ID, in.AffectedQuantity); err != nil {
			return err
		}

		notes := appendNoteLine(res.MaintenanceNotes,
			fmt.Sprintf("DAMAGE (%s): %s - reported by %s, %d %s affected",
				in.Severity, in.Description, in.Actor, in.AffectedQuantity, res.Unit))
		if err := tx.Model(&Resource{}).Where("id = ?", res.ID).Updates(map[string]any{
			"condition":         outcome,
			"maintenance_notes": notes,
		}).Error; err != nil {
			return fmt.Errorf("update resource condition: %w", err)
		}

		req := &MaintenanceRequest{
			ID:            uuid.New().String(),
			Station:       res.Station,
			ResourceID:    res.ID,
			RequestedBy:   in.Actor,
			Category:      CategoryRepair,
			Priority:      PriorityForSeverity(in.Severity),
			Description:   fmt.Sprintf("Damage report (%s/%s): %s", in.Category, in.Severity, in.Description),
			Status:        StatusPending,
			Quantity:      in.AffectedQuantity,
			EstimatedCost: in.EstimatedCost,
		}
		if err := tx.Create(req).Error; err != nil {
			return fmt.Errorf("create repair request: %w", err)
		}

		entry := &LedgerEntry{
			ID:                 uuid.New().String(),
			Station:            res.Station,
			ResourceID:         res.ID,
			EventType:          EventDamageReport,
			Actor:              in.Actor,
			Quantity:           in.AffectedQuantity,
			Category:           in.Category,
			Severity:           in.Severity,
			Notes:              in.Description,
			ResultingCondition: outcome,
			Cost:               in.EstimatedCost,
			RequestID:          req.ID,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("append damage ledger entry: %w", err)
		}

		res.AvailableQuantity -= in.AffectedQuantity
		res.Condition = outcome
		res.MaintenanceNotes = notes
		result = OperationResult{
			Resource:      res,
			LedgerEntryID: entry.ID,
			RequestID:     req.ID,
			Message:       fmt.Sprintf("Damage recorded; condition is now %s", outcome),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.DamageReported()
		s.metrics.RequestFiled(string(CategoryRepair))
	}
	return &result, nil
}

// RequestInput describes a supply or repair request submission.
type RequestInput struct {
	Station       string
	ResourceID    string
	Actor         string
	Category      RequestCategory
	Quantity      int
	Justification string
	Priority      Priority
	EstimatedCost float64
	NeededBy      *time.Time
}

// SubmitRequest files a supply or repair request. No inventory mutation occurs
// at request time; approval and fulfillment happen through the request
// workflow. If the request is a supply request and the resource is at or below
// its minimum stock level, an informational low-stock line is appended to the
// resource notes.
func (s *Service) SubmitRequest(ctx context.Context, in RequestInput) (*OperationResult, error) {
	if in.Category != CategorySupply && in.Category != CategoryRepair {
		return nil, fmt.Errorf("request category must be %q or %q, got %q", CategorySupply, CategoryRepair, in.Category)
	}
	if in.Category == CategorySupply && in.Quantity <= 0 {
		return nil, fmt.Errorf("supply requests need a positive quantity, got %d", in.Quantity)
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}

	var result OperationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := lockResource(tx, in.Station, in.ResourceID)
		if err != nil {
			return err
		}
		if !res.Active {
			return fmt.Errorf("resource %s: %w", res.ID, ErrResourceInactive)
		}

		var description string
		eventType := EventRepairRequest
		if in.Category == CategorySupply {
			eventType = EventSupplyRequest
			description = fmt.Sprintf("Supply request: %d %s of %s: %s", in.Quantity, res.Unit, res.Name, in.Justification)
		} else {
			description = fmt.Sprintf("Repair request for %s: %s", res.Name, in.Justification)
		}

		req := &MaintenanceRequest{
			ID:            uuid.New().String(),
			Station:       res.Station,
			ResourceID:    res.ID,
			RequestedBy:   in.Actor,
			Category:      in.Category,
			Priority:      in.Priority,
			Description:   description,
			Status:        StatusPending,
			Quantity:      in.Quantity,
			EstimatedCost: in.EstimatedCost,
			NeededBy:      in.NeededBy,
		}
		if err := tx.Create(req).Error; err != nil {
			return fmt.Errorf("create maintenance request: %w", err)
		}

		entry := &LedgerEntry{
			ID:                 uuid.New().String(),
			Station:            res.Station,
			ResourceID:         res.ID,
			EventType:          eventType,
			Actor:              in.Actor,
			Quantity:           in.Quantity,
			Category:           string(in.Category),
			Notes:              in.Justification,
			ResultingCondition: res.Condition,
			Cost:               in.EstimatedCost,
			RequestID:          req.ID,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("append request ledger entry: %w", err)
		}

		// Informational only: quantity and condition are untouched.
		if in.Category == CategorySupply && res.AvailableQuantity <= res.MinStockLevel {
			notes := appendNoteLine(res.MaintenanceNotes,
				fmt.Sprintf("LOW STOCK: available %d at or below minimum %d (supply request %s)",
					res.AvailableQuantity, res.MinStockLevel, req.ID))
			if err := tx.Model(&Resource{}).Where("id = ?", res.ID).
				Update("maintenance_notes", notes).Error; err != nil {
				return fmt.Errorf("append low-stock note: %w", err)
			}
			res.MaintenanceNotes = notes
		}

		result = OperationResult{
			Resource:      res,
			LedgerEntryID: entry.ID,
			RequestID:     req.ID,
			Message:       fmt.Sprintf("%s request %s filed", in.Category, req.ID),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RequestFiled(string(in.Category))
	}
	return &result, nil
}

// decrementAvailable applies the guarded conditional decrement. RowsAffected
// of zero means another transaction consumed the quantity between our
// validation read and this update, so the whole operation fails and rolls
// back rather than overdrawing the resource.
func decrementAvailable(tx *gorm.DB, resourceID string, qty int) error {
	result := tx.Model(&Resource{}).
		Where("id = ? AND available_quantity >= ?", resourceID, qty).
		UpdateColumn("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if result.Error != nil {
		return fmt.Errorf("decrement available quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("concurrent update consumed the stock: %w", ErrInsufficientQuantity)
	}
	return nil
}

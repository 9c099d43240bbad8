package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStore provides read access to maintenance requests. Requests are
// created by the Service operations and mutated only through
// Service.TransitionRequest.
type RequestStore struct {
	db *gorm.DB
}

// NewRequestStore creates a new RequestStore.
func NewRequestStore(db *gorm.DB) *RequestStore {
	return &RequestStore{db: db}
}

// RequestListFilter defines filters for listing maintenance requests.
type RequestListFilter struct {
	ResourceID  string
	Category    RequestCategory
	Status      RequestStatus
	Priority    Priority
	RequestedBy string
}

// List returns paginated maintenance requests for a station.
func (s *RequestStore) List(station string, filter RequestListFilter, pageSize int, pageToken string) ([]MaintenanceRequest, string, error) {
	if station == "" {
		station = "default"
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	query := s.db.Where("station = ?", station).Order("id ASC").Limit(pageSize + 1)
	if filter.ResourceID != "" {
		query = query.Where("resource_id = ?", filter.ResourceID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.RequestedBy != "" {
		query = query.Where("requested_by = ?", filter.RequestedBy)
	}
	if pageToken != "" {
		query = query.Where("id > ?", pageToken)
	}

	var requests []MaintenanceRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, "", fmt.Errorf("list maintenance requests: %w", err)
	}

	var nextToken string
	if len(requests) > pageSize {
		nextToken = requests[pageSize-1].ID
		requests = requests[:pageSize]
	}

	return requests, nextToken, nil
}

// Get retrieves a maintenance request. Returns nil, nil if no row exists.
func (s *RequestStore) Get(station, id string) (*MaintenanceRequest, error) {
	if station == "" {
		station = "default"
	}
	var req MaintenanceRequest
	err := s.db.Where("station = ? AND id = ?", station, id).First(&req).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get maintenance request: %w", err)
	}
	return &req, nil
}

// HasOpenSupplyRequest reports whether a resource already has a supply request
// in a non-terminal state. The restock scanner uses this to avoid filing
// duplicates.
func (s *RequestStore) HasOpenSupplyRequest(resourceID string) (bool, error) {
	var count int64
	err := s.db.Model(&MaintenanceRequest{}).
		Where("resource_id = ? AND category = ? AND status IN ?", resourceID, CategorySupply,
			[]RequestStatus{StatusPending, StatusApproved, StatusInProgress}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check open supply request: %w", err)
	}
	return count > 0, nil
}

// TransitionOptions carries the optional effects of a request transition.
// RestoredCondition applies only when completing a repair request: the
// technician states the resulting condition explicitly, there is no automatic
// restoration. ReceivedQuantity applies only when completing a supply request.
type TransitionOptions struct {
	Note              string
	RestoredCondition Condition
	ReceivedQuantity  int
	ActualCost        float64
	LaborHours        float64
}

// RequestResult reports a committed request transition.
type RequestResult struct {
	Request       *MaintenanceRequest `json:"request"`
	LedgerEntryID string              `json:"ledgerEntryId,omitempty"`
	Message       string              `json:"message"`
}

// TransitionRequest moves a maintenance request through its workflow. Invalid
// moves fail with a TransitionError and no effect. Completing a repair request
// with a restored condition resets the resource and appends a repair_completed
// ledger entry; completing a supply request with a received quantity raises
// both quantity columns and appends a restock entry. All writes share one
// transaction.
func (s *Service) TransitionRequest(ctx context.Context, station, requestID, actor string, to RequestStatus, opts TransitionOptions) (*RequestResult, error) {
	if opts.RestoredCondition != "" && !ValidCondition(opts.RestoredCondition) {
		return nil, fmt.Errorf("unknown condition %q", opts.RestoredCondition)
	}
	if opts.ReceivedQuantity < 0 {
		return nil, fmt.Errorf("received quantity must not be negative, got %d", opts.ReceivedQuantity)
	}

	if station == "" {
		station = "default"
	}

	var result RequestResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req MaintenanceRequest
		if err := tx.Where("station = ? AND id = ?", station, requestID).First(&req).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("request %s: %w", requestID, ErrRequestNotFound)
			}
			return fmt.Errorf("load maintenance request: %w", err)
		}

		if err := ValidateRequestTransition(req.Status, to); err != nil {
			return err
		}
		if req.Status == to {
			result = RequestResult{Request: &req, Message: "no change"}
			return nil
		}

		updates := map[string]any{
			"status":      to,
			"resolved_by": actor,
		}
		if opts.Note != "" {
			updates["resolution"] = opts.Note
		}
		now := time.Now()
		if to == StatusCompleted {
			updates["completed_at"] = now
		}
		if err := tx.Model(&MaintenanceRequest{}).Where("id = ?", req.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update maintenance request: %w", err)
		}

		var ledgerID string
		if to == StatusCompleted {
			var err error
			switch req.Category {
			case CategoryRepair:
				ledgerID, err = s.completeRepair(tx, &req, actor, opts)
			case CategorySupply:
				ledgerID, err = s.completeSupply(tx, &req, actor, opts)
			}
			if err != nil {
				return err
			}
		}

		req.Status = to
		req.ResolvedBy = actor
		if opts.Note != "" {
			req.Resolution = opts.Note
		}
		if to == StatusCompleted {
			req.CompletedAt = &now
		}
		result = RequestResult{
			Request:       &req,
			LedgerEntryID: ledgerID,
			Message:       fmt.Sprintf("Request %s is now %s", req.ID, to),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// completeRepair applies the repair-completion effects. Without an explicit
// restored condition the resource is left as-is.
func (s *Service) completeRepair(tx *gorm.DB, req *MaintenanceRequest, actor string, opts TransitionOptions) (string, error) {
	if opts.RestoredCondition == "" {
		return "", nil
	}

	res, err := lockResource(tx, req.Station, req.ResourceID)
	if err != nil {
		return "", err
	}

	notes := appendNoteLine(res.MaintenanceNotes,
		fmt.Sprintf("REPAIR COMPLETED (request %s): condition set to %s by %s", req.ID, opts.RestoredCondition, actor))
	if err := tx.Model(&Resource{}).Where("id = ?", res.ID).Updates(map[string]any{
		"condition":         opts.RestoredCondition,
		"maintenance_notes": notes,
	}).Error; err != nil {
		return "", fmt.Errorf("restore resource condition: %w", err)
	}

	entry := &LedgerEntry{
		ID:                 uuid.New().String(),
		Station:            res.Station,
		ResourceID:         res.ID,
		EventType:          EventRepairCompleted,
		Actor:              actor,
		Notes:              opts.Note,
		ResultingCondition: opts.RestoredCondition,
		Cost:               opts.ActualCost,
		LaborHours:         opts.LaborHours,
		RequestID:          req.ID,
	}
	if err := tx.Create(entry).Error; err != nil {
		return "", fmt.Errorf("append repair ledger entry: %w", err)
	}
	return entry.ID, nil
}

// completeSupply applies the supply-completion effects. Raising quantity and
// available_quantity by the same delta preserves the stock invariant.
func (s *Service) completeSupply(tx *gorm.DB, req *MaintenanceRequest, actor string, opts TransitionOptions) (string, error) {
	if opts.ReceivedQuantity == 0 {
		return "", nil
	}

	res, err := lockResource(tx, req.Station, req.ResourceID)
	if err != nil {
		return "", err
	}

	result := tx.Model(&Resource{}).Where("id = ?", res.ID).Updates(map[string]any{
		"quantity":           gorm.Expr("quantity + ?", opts.ReceivedQuantity),
		"available_quantity": gorm.Expr("available_quantity + ?", opts.ReceivedQuantity),
	})
	if result.Error != nil {
		return "", fmt.Errorf("restock resource: %w", result.Error)
	}

	entry := &LedgerEntry{
		ID:                 uuid.New().String(),
		Station:            res.Station,
		ResourceID:         res.ID,
		EventType:          EventRestock,
		Actor:              actor,
		Quantity:           opts.ReceivedQuantity,
		Notes:              opts.Note,
		ResultingCondition: res.Condition,
		Cost:               opts.ActualCost,
		RequestID:          req.ID,
	}
	if err := tx.Create(entry).Error; err != nil {
		return "", fmt.Errorf("append restock ledger entry: %w", err)
	}
	return entry.ID, nil
}

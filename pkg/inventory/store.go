package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResourceStore provides CRUD operations for resource rows.
type ResourceStore struct {
	db *gorm.DB
}

// NewResourceStore creates a new ResourceStore.
func NewResourceStore(db *gorm.DB) *ResourceStore {
	return &ResourceStore{db: db}
}

// AutoMigrate creates or updates the inventory tables.
func (s *ResourceStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Resource{}); err != nil {
		return fmt.Errorf("auto-migrate resources: %w", err)
	}
	if err := s.db.AutoMigrate(&LedgerEntry{}); err != nil {
		return fmt.Errorf("auto-migrate service_ledger: %w", err)
	}
	if err := s.db.AutoMigrate(&ResourceTag{}); err != nil {
		return fmt.Errorf("auto-migrate resource_tags: %w", err)
	}
	if err := s.db.AutoMigrate(&MaintenanceRequest{}); err != nil {
		return fmt.Errorf("auto-migrate maintenance_requests: %w", err)
	}
	return nil
}

// Create stores a new resource row. A zero AvailableQuantity is initialized to
// the total quantity; the stored row always satisfies
// 0 <= available_quantity <= quantity.
func (s *ResourceStore) Create(r *Resource) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Station == "" {
		r.Station = "default"
	}
	if r.Condition == "" {
		r.Condition = ConditionServiceable
	}
	if r.AvailableQuantity == 0 {
		r.AvailableQuantity = r.Quantity
	}
	if r.Quantity < 0 || r.AvailableQuantity < 0 || r.AvailableQuantity > r.Quantity {
		return fmt.Errorf("available quantity %d out of range [0, %d]", r.AvailableQuantity, r.Quantity)
	}
	r.Active = true
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

// Get retrieves a resource by station and id. Returns nil, nil if no row exists.
func (s *ResourceStore) Get(station, id string) (*Resource, error) {
	if station == "" {
		station = "default"
	}
	var r Resource
	err := s.db.Where("station = ? AND id = ?", station, id).First(&r).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return &r, nil
}

// ResourceListFilter defines filters for listing resources.
type ResourceListFilter struct {
	ResourceType string
	Category     string
	Condition    Condition
	ActiveOnly   bool
	LowStockOnly bool
}

// List returns paginated resources for a station.
// pageToken is the ID of the last record from the previous page; pass "" for
// the first page.
func (s *ResourceStore) List(station string, filter ResourceListFilter, pageSize int, pageToken string) ([]Resource, string, error) {
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
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Condition != "" {
		// condition is a reserved word on MySQL; the map form quotes it per dialect.
		query = query.Where(map[string]any{"condition": filter.Condition})
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.LowStockOnly {
		query = query.Where("available_quantity <= min_stock_level")
	}
	if pageToken != "" {
		query = query.Where("id > ?", pageToken)
	}

	var resources []Resource
	if err := query.Find(&resources).Error; err != nil {
		return nil, "", fmt.Errorf("list resources: %w", err)
	}

	var nextToken string
	if len(resources) > pageSize {
		nextToken = resources[pageSize-1].ID
		resources = resources[:pageSize]
	}

	return resources, nextToken, nil
}

// Deactivate soft-deletes a resource. Rows are never physically removed; the
// ledger keeps referencing them.
func (s *ResourceStore) Deactivate(station, id string) error {
	if station == "" {
		station = "default"
	}
	result := s.db.Model(&Resource{}).
		Where("station = ? AND id = ? AND active = ?", station, id, true).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("deactivate resource: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		existing, err := s.Get(station, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("resource %s: %w", id, ErrResourceNotFound)
		}
		return fmt.Errorf("resource %s: %w", id, ErrResourceInactive)
	}
	return nil
}

// lockResource loads a resource row inside tx, taking a row lock on dialects
// that support SELECT ... FOR UPDATE. SQLite serializes writers anyway, so the
// plain read is safe there; the conditional-decrement guards in service.go
// cover the remaining window on all dialects.
func lockResource(tx *gorm.DB, station, id string) (*Resource, error) {
	if station == "" {
		station = "default"
	}
	query := tx.Where("station = ? AND id = ?", station, id)
	switch tx.Dialector.Name() {
	case "postgres", "mysql":
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var r Resource
	if err := query.First(&r).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resource %s: %w", id, ErrResourceNotFound)
		}
		return nil, fmt.Errorf("lock resource: %w", err)
	}
	return &r, nil
}

package audit

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Store persists audit events.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the audit_events table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&EventRecord{}); err != nil {
		return fmt.Errorf("auto-migrate audit_events: %w", err)
	}
	return nil
}

// Append writes one audit event.
func (s *Store) Append(event *EventRecord) error {
	if err := s.db.Create(event).Error; err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListFilter defines filters for listing audit events.
type ListFilter struct {
	Station      string
	Actor        string
	ResourceType string
	Action       string
	Outcome      string
}

// List returns paginated audit events, newest first. pageToken is an RFC3339
// timestamp; events with created_at earlier than the token are returned.
func (s *Store) List(filter ListFilter, pageSize int, pageToken string) ([]EventRecord, string, int64, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	buildQuery := func(base *gorm.DB) *gorm.DB {
		q := base.Model(&EventRecord{})
		if filter.Station != "" {
			q = q.Where("station = ?", filter.Station)
		}
		if filter.Actor != "" {
			q = q.Where("actor = ?", filter.Actor)
		}
		if filter.ResourceType != "" {
			q = q.Where("resource_type = ?", filter.ResourceType)
		}
		if filter.Action != "" {
			q = q.Where("action = ?", filter.Action)
		}
		if filter.Outcome != "" {
			q = q.Where("outcome = ?", filter.Outcome)
		}
		return q
	}

	var total int64
	if err := buildQuery(s.db).Count(&total).Error; err != nil {
		return nil, "", 0, fmt.Errorf("count audit events: %w", err)
	}

	query := buildQuery(s.db).Order("created_at DESC").Limit(pageSize + 1)
	if pageToken != "" {
		cutoff, err := time.Parse(time.RFC3339Nano, pageToken)
		if err != nil {
			return nil, "", 0, fmt.Errorf("invalid page token: %w", err)
		}
		query = query.Where("created_at < ?", cutoff)
	}

	var events []EventRecord
	if err := query.Find(&events).Error; err != nil {
		return nil, "", 0, fmt.Errorf("list audit events: %w", err)
	}

	var nextToken string
	if len(events) > pageSize {
		events = events[:pageSize]
		nextToken = events[pageSize-1].CreatedAt.Format(time.RFC3339Nano)
	}

	return events, nextToken, total, nil
}

// GetByID retrieves one audit event. Returns nil, nil if no row exists.
func (s *Store) GetByID(id string) (*EventRecord, error) {
	var event EventRecord
	err := s.db.Where("id = ?", id).First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit event: %w", err)
	}
	return &event, nil
}

// DeleteOlderThan removes audit events created before cutoff. Returns the
// number of rows deleted.
func (s *Store) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", cutoff).Delete(&EventRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete old audit events: %w", result.Error)
	}
	return result.RowsAffected, nil
}

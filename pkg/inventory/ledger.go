package inventory

import (
	"fmt"

	"gorm.io/gorm"
)

// LedgerStore provides read access to the append-only service ledger.
// Entries are only ever written inside the Service transactions; the single
// exception is tag removal, which deletes tag rows by exact event type.
type LedgerStore struct {
	db *gorm.DB
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// LedgerListFilter defines filters for listing ledger entries.
type LedgerListFilter struct {
	ResourceID string
	EventType  string
	Actor      string
	IncidentID string
}

// List returns paginated ledger entries for a station along with the total
// match count.
// pageToken is the ID of the last record from the previous page; pass "" for
// the first page.
func (s *LedgerStore) List(station string, filter LedgerListFilter, pageSize int, pageToken string) ([]LedgerEntry, string, int64, error) {
	if station == "" {
		station = "default"
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	buildQuery := func(base *gorm.DB) *gorm.DB {
		q := base.Model(&LedgerEntry{}).Where("station = ?", station)
		if filter.ResourceID != "" {
			q = q.Where("resource_id = ?", filter.ResourceID)
		}
		if filter.EventType != "" {
			q = q.Where("event_type = ?", filter.EventType)
		}
		if filter.Actor != "" {
			q = q.Where("actor = ?", filter.Actor)
		}
		if filter.IncidentID != "" {
			q = q.Where("incident_id = ?", filter.IncidentID)
		}
		return q
	}

	var total int64
	if err := buildQuery(s.db).Count(&total).Error; err != nil {
		return nil, "", 0, fmt.Errorf("count ledger entries: %w", err)
	}

	query := buildQuery(s.db).Order("id ASC").Limit(pageSize + 1)
	if pageToken != "" {
		query = query.Where("id > ?", pageToken)
	}

	var entries []LedgerEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, "", 0, fmt.Errorf("list ledger entries: %w", err)
	}

	var nextToken string
	if len(entries) > pageSize {
		nextToken = entries[pageSize-1].ID
		entries = entries[:pageSize]
	}

	return entries, nextToken, total, nil
}

// Get retrieves a single ledger entry. Returns nil, nil if no row exists.
func (s *LedgerStore) Get(station, id string) (*LedgerEntry, error) {
	if station == "" {
		station = "default"
	}
	var e LedgerEntry
	err := s.db.Where("station = ? AND id = ?", station, id).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return &e, nil
}

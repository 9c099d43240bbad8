package volunteer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store persists volunteer applications.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the volunteer_applications table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Application{}); err != nil {
		return fmt.Errorf("auto-migrate volunteer_applications: %w", err)
	}
	return nil
}

// Create stores a new application. The record is immutable afterwards except
// for its review status.
func (s *Store) Create(a *Application) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Station == "" {
		a.Station = "default"
	}
	a.Status = StatusPending
	if err := s.db.Create(a).Error; err != nil {
		return fmt.Errorf("create volunteer application: %w", err)
	}
	return nil
}

// Get retrieves an application. Returns nil, nil if no row exists.
func (s *Store) Get(station, id string) (*Application, error) {
	if station == "" {
		station = "default"
	}
	var a Application
	err := s.db.Where("station = ? AND id = ?", station, id).First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get volunteer application: %w", err)
	}
	return &a, nil
}

// ListFilter defines filters for listing applications.
type ListFilter struct {
	Status ApplicationStatus
}

// List returns paginated applications for a station.
func (s *Store) List(station string, filter ListFilter, pageSize int, pageToken string) ([]Application, string, error) {
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
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if pageToken != "" {
		query = query.Where("id > ?", pageToken)
	}

	var apps []Application
	if err := query.Find(&apps).Error; err != nil {
		return nil, "", fmt.Errorf("list volunteer applications: %w", err)
	}

	var nextToken string
	if len(apps) > pageSize {
		nextToken = apps[pageSize-1].ID
		apps = apps[:pageSize]
	}

	return apps, nextToken, nil
}

// Review moves an application through the intake workflow. Only the review
// columns change; the submitted form content is never rewritten.
func (s *Store) Review(station, id, reviewer string, to ApplicationStatus, note string) (*Application, error) {
	if station == "" {
		station = "default"
	}

	var reviewed Application
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var a Application
		if err := tx.Where("station = ? AND id = ?", station, id).First(&a).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("application %s: %w", id, ErrApplicationNotFound)
			}
			return fmt.Errorf("load volunteer application: %w", err)
		}

		if err := ValidateTransition(a.Status, to); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]any{
			"status":      to,
			"reviewed_by": reviewer,
			"reviewed_at": now,
		}
		if note != "" {
			updates["review_note"] = note
		}
		if err := tx.Model(&Application{}).Where("id = ?", a.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update application status: %w", err)
		}

		a.Status = to
		a.ReviewedBy = reviewer
		a.ReviewedAt = &now
		if note != "" {
			a.ReviewNote = note
		}
		reviewed = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reviewed, nil
}

package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

var tagCaser = cases.Title(language.English)

// CanonicalTagName normalizes a tag name: leading '#' stripped, whitespace
// trimmed, title-cased. "#emergency  " and "EMERGENCY" both canonicalize to
// "Emergency", so duplicate detection is case- and prefix-insensitive.
func CanonicalTagName(name string) string {
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "#"))
	if name == "" {
		return ""
	}
	return tagCaser.String(strings.ToLower(name))
}

// TagInput describes a tag-add operation.
type TagInput struct {
	Station    string
	ResourceID string
	Actor      string
	Name       string
	Category   string
	Color      string
	Notes      string
}

// TagResult reports a committed tag operation.
type TagResult struct {
	Tag           *ResourceTag `json:"tag,omitempty"`
	LedgerEntryID string       `json:"ledgerEntryId,omitempty"`
	Message       string       `json:"message"`
}

// AddTag attaches a tag to a resource. The canonical name is written to three
// places in one transaction: the resource_tags row (whose unique index is the
// authority for duplicates), a tag:<Name> ledger entry, and the legacy TAG:
// line in the resource's notes blob. Adding an existing tag fails with
// ErrDuplicateTag and no effect.
func (s *Service) AddTag(ctx context.Context, in TagInput) (*TagResult, error) {
	name := CanonicalTagName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("tag name is empty after canonicalization")
	}

	var result TagResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := lockResource(tx, in.Station, in.ResourceID)
		if err != nil {
			return err
		}
		if !res.Active {
			return fmt.Errorf("resource %s: %w", res.ID, ErrResourceInactive)
		}

		var count int64
		if err := tx.Model(&ResourceTag{}).
			Where("resource_id = ? AND name = ?", res.ID, name).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check existing tag: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("tag %q on resource %s: %w", name, res.ID, ErrDuplicateTag)
		}

		tag := &ResourceTag{
			ID:         uuid.New().String(),
			ResourceID: res.ID,
			Name:       name,
			Category:   in.Category,
			Color:      in.Color,
			Notes:      in.Notes,
			CreatedBy:  in.Actor,
		}
		if err := tx.Create(tag).Error; err != nil {
			// The unique index is the backstop for a concurrent add that slipped
			// past the count.
			return fmt.Errorf("create tag (%w): %v", ErrDuplicateTag, err)
		}

		entry := &LedgerEntry{
			ID:                 uuid.New().String(),
			Station:            res.Station,
			ResourceID:         res.ID,
			EventType:          TagEventPrefix + name,
			Actor:              in.Actor,
			Category:           in.Category,
			Notes:              in.Notes,
			ResultingCondition: res.Condition,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("append tag ledger entry: %w", err)
		}

		notes := appendNoteLine(res.MaintenanceNotes, tagNoteLine(name, in.Category))
		if err := tx.Model(&Resource{}).Where("id = ?", res.ID).
			Update("maintenance_notes", notes).Error; err != nil {
			return fmt.Errorf("append tag note line: %w", err)
		}

		result = TagResult{
			Tag:           tag,
			LedgerEntryID: entry.ID,
			Message:       fmt.Sprintf("Tag %q added", name),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveTag detaches a tag from a resource: the resource_tags row and the
// matching tag:<Name> ledger row are deleted, and every TAG: <Name> line is
// stripped from the resource notes, leaving other lines unchanged. Removing an
// absent tag fails with ErrTagNotFound.
func (s *Service) RemoveTag(ctx context.Context, station, resourceID, actor, name string) (*TagResult, error) {
	canonical := CanonicalTagName(name)
	if canonical == "" {
		return nil, fmt.Errorf("tag name is empty after canonicalization")
	}

	var result TagResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := lockResource(tx, station, resourceID)
		if err != nil {
			return err
		}

		del := tx.Where("resource_id = ? AND name = ?", res.ID, canonical).Delete(&ResourceTag{})
		if del.Error != nil {
			return fmt.Errorf("delete tag row: %w", del.Error)
		}
		if del.RowsAffected == 0 {
			return fmt.Errorf("tag %q on resource %s: %w", canonical, res.ID, ErrTagNotFound)
		}

		if err := tx.Where("resource_id = ? AND event_type = ?", res.ID, TagEventPrefix+canonical).
			Delete(&LedgerEntry{}).Error; err != nil {
			return fmt.Errorf("delete tag ledger entry: %w", err)
		}

		notes := stripTagLines(res.MaintenanceNotes, canonical)
		if notes != res.MaintenanceNotes {
			if err := tx.Model(&Resource{}).Where("id = ?", res.ID).
				Update("maintenance_notes", notes).Error; err != nil {
				return fmt.Errorf("strip tag note line: %w", err)
			}
		}

		result = TagResult{Message: fmt.Sprintf("Tag %q removed", canonical)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTags returns the tags attached to a resource.
func (s *Service) ListTags(ctx context.Context, station, resourceID string) ([]ResourceTag, error) {
	res, err := NewResourceStore(s.db).Get(station, resourceID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("resource %s: %w", resourceID, ErrResourceNotFound)
	}

	var tags []ResourceTag
	if err := s.db.WithContext(ctx).
		Where("resource_id = ?", res.ID).
		Order("name ASC").
		Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

package audit

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONStringSlice stores a []string as a JSON column.
type JSONStringSlice []string

// Scan implements the sql.Scanner interface.
func (s *JSONStringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	default:
		return fmt.Errorf("unsupported type for JSONStringSlice: %T", value)
	}
	return json.Unmarshal(bytes, s)
}

// Value implements the driver.Valuer interface.
func (s JSONStringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// EventRecord is one captured management action. The audit trail is request
// level and distinct from the inventory service ledger: it records who called
// which endpoint with what outcome, not the domain facts themselves.
type EventRecord struct {
	ID            string          `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Station       string          `gorm:"column:station;index;default:default;not null" json:"station"`
	CorrelationID string          `gorm:"column:correlation_id;index" json:"correlationId,omitempty"`
	RequestID     string          `gorm:"column:request_id" json:"requestId,omitempty"`
	Actor         string          `gorm:"column:actor;index;not null" json:"actor"`
	Role          string          `gorm:"column:role" json:"role,omitempty"`
	ResourceType  string          `gorm:"column:resource_type;index" json:"resourceType,omitempty"`
	ResourceIDs   JSONStringSlice `gorm:"column:resource_ids;type:text" json:"resourceIds,omitempty"`
	Action        string          `gorm:"column:action;index" json:"action,omitempty"`
	Method        string          `gorm:"column:method" json:"method"`
	Path          string          `gorm:"column:path" json:"path"`
	Outcome       string          `gorm:"column:outcome;index;not null" json:"outcome"`
	StatusCode    int             `gorm:"column:status_code" json:"statusCode"`
	DurationMS    int64           `gorm:"column:duration_ms" json:"durationMs"`
	CreatedAt     time.Time       `gorm:"column:created_at;index" json:"createdAt"`
}

// TableName returns the GORM table name.
func (EventRecord) TableName() string { return "audit_events" }

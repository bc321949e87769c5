package persistence

import (
	"time"
)

// LookupLogModel represents the lookup_logs table
type LookupLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID string    `gorm:"column:session_id;not null;index:idx_lookup_logs_session_ts,priority:1"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index:idx_lookup_logs_session_ts,priority:2"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON stored as string
}

func (LookupLogModel) TableName() string {
	return "lookup_logs"
}

package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Template is an invitation design template backed by a Canva brand template.
// Fetched once per session and treated as immutable.
type Template struct {
	ID           uuid.UUID
	CanvaID      string
	TemplateName string
	TemplateType string // "mp4", "pdf" or other
	CategoryID   sql.NullInt64
	PreviewURL   sql.NullString
	AudioURL     sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time

	DatasetFields []DatasetField
}

// DatasetField is one fillable slot in a template. Fields are always
// served sorted ascending by ID so form ordering is stable.
type DatasetField struct {
	ID          int64
	TemplateID  uuid.UUID
	FieldName   string
	FieldNameKZ string
	HintTextKZ  sql.NullString
}

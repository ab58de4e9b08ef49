package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RenderJob tracks one two-phase autofill+export run against the Canva
// service. Phase and Status mirror the render state machine snapshot.
type RenderJob struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	TemplateID    uuid.UUID
	Phase         string // "autofill" or "export"
	Status        string // "submitting", "polling", "success", "failed"
	AutofillJobID sql.NullString
	ExportJobID   sql.NullString
	DesignID      sql.NullString
	DesignType    string
	ViewURL       sql.NullString
	EditURL       sql.NullString
	Thumbnail     sql.NullString
	ExportURLs    json.RawMessage
	ErrorMessage  sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// InvitationImage is the server-side record of a crop pipeline run. The
// cropped variant is uploaded as soon as the crop is confirmed; a
// background-removed variant overwrites the same storage object only when
// the user confirms it.
type InvitationImage struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	SiteID       uuid.UUID
	Stage        string // "options" after crop upload, "final" after confirm/discard
	StoragePath  string
	StorageURL   string
	FileSize     sql.NullInt64
	MimeType     string
	BgRemoved    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

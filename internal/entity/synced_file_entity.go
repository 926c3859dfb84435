package entity

import (
	"time"

	"github.com/google/uuid"
)

// SyncedFile is one row of the append-only download ledger.
type SyncedFile struct {
	Id               uuid.UUID
	OriginalFilename string
	LocalFilename    string
	FilePath         string
	FileSize         int64
	SyncedAt         time.Time
}

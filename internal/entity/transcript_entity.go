package entity

import (
	"time"

	"github.com/google/uuid"
)

// Transcript rows are written by the transcription pipeline and only read here.
type Transcript struct {
	Id          uuid.UUID
	RecordingId uuid.UUID
	FullText    string
	Summary     *string
	WordCount   int
	CreatedAt   time.Time
}

func (t *Transcript) HasSummary() bool {
	return t.Summary != nil && *t.Summary != ""
}

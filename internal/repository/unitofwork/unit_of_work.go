package unitofwork

import (
	"context"

	"github.com/sgeraldes/hidock-next-sub000/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	RecordingRepository() contract.RecordingRepository
	MeetingRepository() contract.MeetingRepository
	TranscriptRepository() contract.TranscriptRepository
	SyncedFileRepository() contract.SyncedFileRepository
	CandidateRepository() contract.CandidateRepository
	QualityAssessmentRepository() contract.QualityAssessmentRepository
}

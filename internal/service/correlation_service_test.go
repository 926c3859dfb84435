package service

import (
	"context"
	"testing"
	"time"

	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/implementation"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
	"github.com/sgeraldes/hidock-next-sub000/pkg/correlation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var meetingDay = time.Date(2025, 5, 13, 0, 0, 0, 0, time.UTC)

func clock(hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	return meetingDay.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

func newCorrelationFixture(t *testing.T) (*correlationService, *gorm.DB, uuid.UUID) {
	t.Helper()
	factory, db := newTestFactory(t)
	svc := NewCorrelationService(factory, correlation.DefaultConfig(), logger.NewNopLogger()).(*correlationService)
	svc.now = fixedClock

	seedMeeting(t, db, "m1", clock("10:00"), clock("11:00"))
	seedMeeting(t, db, "m2", clock("10:25"), clock("11:00"))
	seedMeeting(t, db, "far", clock("15:00"), clock("16:00"))

	r := seedRecording(t, db, recordingFixture{
		filename:   "2025May13-101500-Rec01.hda",
		size:       5000,
		duration:   floatPtr(600),
		recordedAt: clock("10:15"),
		onLocal:    true,
	})
	return svc, db, r.Id
}

func selectedCount(t *testing.T, db *gorm.DB, recordingId uuid.UUID) int64 {
	t.Helper()
	n, err := implementation.NewCandidateRepository(db).Count(context.Background(),
		specification.ByRecordingID{RecordingID: recordingId},
		specification.SelectedCandidate{},
	)
	require.NoError(t, err)
	return n
}

func TestCorrelationWindowScenario(t *testing.T) {
	svc, db, id := newCorrelationFixture(t)
	ctx := context.Background()

	res, err := svc.CorrelateRecording(ctx, id)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	require.NotNil(t, res.Best)
	assert.Equal(t, "m1", res.Best.MeetingId)
	assert.InDelta(t, 0.90, res.Best.Confidence, 1e-9)
	assert.Equal(t, correlation.MethodTimeOverlap, res.Best.Method)
	assert.InDelta(t, 0.60, res.Candidates[1].Confidence, 1e-9)
	assert.True(t, res.Linked)

	recording := findRecording(t, db, id)
	require.NotNil(t, recording.MeetingId)
	assert.Equal(t, "m1", *recording.MeetingId)
	assert.Equal(t, correlation.MethodTimeOverlap, *recording.CorrelationMethod)
	assert.Equal(t, int64(1), selectedCount(t, db, id))

	candidates, err := svc.GetCandidates(ctx, id)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "m1", candidates[0].MeetingId)
	assert.True(t, candidates[0].IsSelected)
	assert.Equal(t, "Meeting m1", candidates[0].Subject)
}

func TestUserSelectionIsNeverOverwritten(t *testing.T) {
	svc, db, id := newCorrelationFixture(t)
	ctx := context.Background()

	_, err := svc.CorrelateRecording(ctx, id)
	require.NoError(t, err)

	m2 := "m2"
	_, err = svc.SelectMeetingForRecordingByUser(ctx, id, &dto.SelectMeetingRequest{MeetingId: &m2})
	require.NoError(t, err)

	recording := findRecording(t, db, id)
	assert.Equal(t, "m2", *recording.MeetingId)
	assert.Equal(t, correlation.MethodUserOverride, *recording.CorrelationMethod)
	assert.Equal(t, 1.0, *recording.CorrelationConfidence)
	assert.Equal(t, int64(1), selectedCount(t, db, id))

	res, err := svc.CorrelateRecording(ctx, id)
	require.NoError(t, err)
	assert.False(t, res.Linked)
	assert.True(t, res.Kept)

	recording = findRecording(t, db, id)
	assert.Equal(t, "m2", *recording.MeetingId)

	candidates, err := svc.GetCandidates(ctx, id)
	require.NoError(t, err)
	for _, c := range candidates {
		assert.Equal(t, c.MeetingId == "m2", c.IsSelected)
		assert.Equal(t, c.MeetingId == "m2", c.IsUserConfirmed)
	}
}

func TestSelectMeetingWithoutPriorCandidate(t *testing.T) {
	svc, db, id := newCorrelationFixture(t)

	_, err := svc.SelectMeetingForRecording(context.Background(), id, "far")
	require.NoError(t, err)

	assert.Equal(t, "far", *findRecording(t, db, id).MeetingId)
	assert.Equal(t, int64(1), selectedCount(t, db, id))
}

func TestStandaloneSelection(t *testing.T) {
	svc, db, id := newCorrelationFixture(t)
	ctx := context.Background()

	_, err := svc.CorrelateRecording(ctx, id)
	require.NoError(t, err)

	res, err := svc.SelectMeetingForRecordingByUser(ctx, id, &dto.SelectMeetingRequest{})
	require.NoError(t, err)
	assert.Nil(t, res.MeetingId)
	assert.Equal(t, correlation.MethodUserStandalone, *res.CorrelationMethod)
	assert.Equal(t, int64(0), selectedCount(t, db, id))

	batch, err := svc.CorrelateUnlinked(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, batch.Processed, "standalone recordings are not re-linked")
}

func TestAISelectedCandidate(t *testing.T) {
	svc, db, id := newCorrelationFixture(t)
	ctx := context.Background()

	res, err := svc.AddRecordingMeetingCandidate(ctx, &dto.AddCandidateRequest{
		RecordingId:     id,
		MeetingId:       "m2",
		ConfidenceScore: 0.8,
		MatchReason:     "transcript mentions roadmap",
		IsAiSelected:    true,
	})
	require.NoError(t, err)
	assert.True(t, res.IsSelected)
	assert.True(t, res.IsAiSelected)

	recording := findRecording(t, db, id)
	assert.Equal(t, "m2", *recording.MeetingId)
	assert.Equal(t, correlation.MethodAITranscriptMatch, *recording.CorrelationMethod)

	corr, err := svc.CorrelateRecording(ctx, id)
	require.NoError(t, err)
	assert.True(t, corr.Kept)

	stored, err := implementation.NewCandidateRepository(db).FindOne(ctx,
		specification.ByRecordingID{RecordingID: id},
		specification.CandidateForMeeting{MeetingID: "m2"},
	)
	require.NoError(t, err)
	assert.Equal(t, 0.8, stored.ConfidenceScore)
	assert.True(t, stored.IsSelected)
	assert.Equal(t, int64(1), selectedCount(t, db, id))
}

func TestAISelectionDefersToUser(t *testing.T) {
	svc, db, id := newCorrelationFixture(t)
	ctx := context.Background()

	_, err := svc.SelectMeetingForRecording(ctx, id, "m1")
	require.NoError(t, err)

	res, err := svc.AddRecordingMeetingCandidate(ctx, &dto.AddCandidateRequest{
		RecordingId: id, MeetingId: "m2", ConfidenceScore: 0.95, IsAiSelected: true,
	})
	require.NoError(t, err)
	assert.False(t, res.IsSelected)
	assert.Equal(t, "m1", *findRecording(t, db, id).MeetingId)
}

func TestAddCandidateValidatesReferences(t *testing.T) {
	svc, _, id := newCorrelationFixture(t)
	ctx := context.Background()

	_, err := svc.AddRecordingMeetingCandidate(ctx, &dto.AddCandidateRequest{RecordingId: uuid.New(), MeetingId: "m1"})
	assert.ErrorIs(t, err, ErrRecordingNotFound)

	_, err = svc.AddRecordingMeetingCandidate(ctx, &dto.AddCandidateRequest{RecordingId: id, MeetingId: "nope"})
	assert.ErrorIs(t, err, ErrMeetingNotFound)
}

func TestRecordingMatchInfo(t *testing.T) {
	svc, _, id := newCorrelationFixture(t)
	ctx := context.Background()

	info, err := svc.GetRecordingMatchInfo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(correlation.DurationNoMeeting), info.DurationMatch)
	assert.Nil(t, info.Meeting)

	_, err = svc.CorrelateRecording(ctx, id)
	require.NoError(t, err)

	info, err = svc.GetRecordingMatchInfo(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, info.Meeting)
	assert.Equal(t, "m1", info.Meeting.Id)
	assert.Equal(t, string(correlation.DurationShorter), info.DurationMatch)
	assert.Equal(t, 2, info.CandidateCount)
	assert.True(t, info.HasConflicts)

	_, err = svc.GetRecordingMatchInfo(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrRecordingNotFound)
}

func TestCorrelateUnlinked(t *testing.T) {
	svc, db, id := newCorrelationFixture(t)
	seedRecording(t, db, recordingFixture{filename: "lonely.hda", recordedAt: clock("20:00"), onDevice: true})

	res, err := svc.CorrelateUnlinked(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Linked)
	assert.Empty(t, res.Failed)
	assert.Equal(t, "m1", *findRecording(t, db, id).MeetingId)
}

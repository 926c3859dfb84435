package service

import "errors"

var (
	ErrRecordingNotFound  = errors.New("recording not found")
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrFileNotInQueue     = errors.New("file not in queue")
	ErrInvalidTransition  = errors.New("invalid queue transition")
	ErrAssessmentNotFound = errors.New("quality assessment not found")
	ErrInvalidInput       = errors.New("invalid input")
)

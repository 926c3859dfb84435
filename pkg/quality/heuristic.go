// Package quality implements the point-scoring heuristic that rates a
// recording's long-term value.
package quality

import (
	"fmt"
	"strings"
)

type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

func (l Level) Valid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow:
		return true
	}
	return false
}

const (
	MethodAuto   = "auto"
	MethodManual = "manual"

	ManualConfidence = 1.0
)

// Config holds the weights and thresholds. Defaults reproduce the shipped
// behaviour exactly.
type Config struct {
	HighThreshold   int
	MediumThreshold int

	TranscriptPoints      int
	WordCountPoints       int
	WordCountMinimum      int
	SummaryPoints         int
	MeetingPoints         int
	StrongMeetingPoints   int
	StrongMeetingMinimum  float64
	DurationPoints        int
	MinDurationSeconds    float64
	MaxDurationSeconds    float64
	FileSizePoints        int
	MinFileSizeBytes      int64
	DefaultConfidence     float64
	ShortRecordingCeiling float64
	SmallFileCeiling      float64
}

func DefaultConfig() Config {
	return Config{
		HighThreshold:         70,
		MediumThreshold:       40,
		TranscriptPoints:      40,
		WordCountPoints:       10,
		WordCountMinimum:      100,
		SummaryPoints:         5,
		MeetingPoints:         30,
		StrongMeetingPoints:   10,
		StrongMeetingMinimum:  0.8,
		DurationPoints:        20,
		MinDurationSeconds:    60,
		MaxDurationSeconds:    7200,
		FileSizePoints:        10,
		MinFileSizeBytes:      1000,
		DefaultConfidence:     0.7,
		ShortRecordingCeiling: 0.6,
		SmallFileCeiling:      0.5,
	}
}

// Input is everything the heuristic looks at.
type Input struct {
	HasTranscript         bool
	WordCount             int
	HasSummary            bool
	HasMeeting            bool
	CorrelationConfidence *float64
	DurationSeconds       *float64
	FileSize              int64
}

// Result carries the level plus the trail of reasons that produced it.
type Result struct {
	Score      int
	Level      Level
	Confidence float64
	Reasons    []string
}

func (r Result) Reason() string {
	return strings.Join(r.Reasons, "; ")
}

// Infer scores the input. Confidence starts at the default and is lowered to
// the ceiling of the most severe triggered condition; ceilings never add up.
func (c Config) Infer(in Input) Result {
	score := 0
	confidence := c.DefaultConfidence
	var reasons []string

	lower := func(ceiling float64) {
		if ceiling < confidence {
			confidence = ceiling
		}
	}

	if in.HasTranscript {
		score += c.TranscriptPoints
		reasons = append(reasons, "Has transcript")
		if in.WordCount > c.WordCountMinimum {
			score += c.WordCountPoints
			reasons = append(reasons, fmt.Sprintf("Substantial content (%d words)", in.WordCount))
		}
		if in.HasSummary {
			score += c.SummaryPoints
			reasons = append(reasons, "Has summary")
		}
	} else {
		reasons = append(reasons, "No transcript")
	}

	if in.HasMeeting {
		score += c.MeetingPoints
		reasons = append(reasons, "Linked to meeting")
		if in.CorrelationConfidence != nil && *in.CorrelationConfidence > c.StrongMeetingMinimum {
			score += c.StrongMeetingPoints
			reasons = append(reasons, "High correlation confidence")
		}
	}

	if in.DurationSeconds != nil {
		d := *in.DurationSeconds
		switch {
		case d < c.MinDurationSeconds:
			lower(c.ShortRecordingCeiling)
			reasons = append(reasons, fmt.Sprintf("Very short recording (%.0fs)", d))
		case d > c.MaxDurationSeconds:
			reasons = append(reasons, fmt.Sprintf("Very long recording (%.0fs)", d))
		default:
			score += c.DurationPoints
			reasons = append(reasons, "Reasonable duration")
		}
	}

	if in.FileSize > c.MinFileSizeBytes {
		score += c.FileSizePoints
	} else {
		lower(c.SmallFileCeiling)
		reasons = append(reasons, fmt.Sprintf("Suspicious file size (%d bytes)", in.FileSize))
	}

	if score > 100 {
		score = 100
	}

	return Result{
		Score:      score,
		Level:      c.LevelFor(score),
		Confidence: confidence,
		Reasons:    reasons,
	}
}

func (c Config) LevelFor(score int) Level {
	switch {
	case score >= c.HighThreshold:
		return LevelHigh
	case score >= c.MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

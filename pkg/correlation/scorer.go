// Package correlation scores calendar meetings against a recording's time window.
package correlation

import (
	"math"
	"time"
)

const (
	MethodTimeOverlap       = "time_overlap"
	MethodTimeProximity     = "time_proximity"
	MethodAITranscriptMatch = "ai_transcript_match"
	MethodUserOverride      = "user_override"
	MethodUserStandalone    = "user_standalone"
)

// Config holds the correlation heuristics.
type Config struct {
	WindowPadding       time.Duration
	DefaultDuration     time.Duration
	OverlapConfidence   float64
	ProximityLimit      time.Duration
	ProximityBase       float64
	ProximityDecay      float64
	ProximityDecaySpan  time.Duration
	SelectionThreshold  float64
	DurationMatchMargin time.Duration
}

func DefaultConfig() Config {
	return Config{
		WindowPadding:       30 * time.Minute,
		DefaultDuration:     30 * time.Minute,
		OverlapConfidence:   0.90,
		ProximityLimit:      15 * time.Minute,
		ProximityBase:       0.70,
		ProximityDecay:      0.30,
		ProximityDecaySpan:  30 * time.Minute,
		SelectionThreshold:  0.50,
		DurationMatchMargin: 300 * time.Second,
	}
}

// Window is the search interval around a recording.
type Window struct {
	Start time.Time
	End   time.Time
}

// Interval is anything with a scheduled start and end, usually a meeting.
type Interval struct {
	ID    string
	Start time.Time
	End   time.Time
}

// Score is the outcome of matching one recording against one meeting.
type Score struct {
	MeetingID  string
	Confidence float64
	Method     string
}

// SearchWindow computes [start - padding, start + duration + padding]. A nil
// or non-positive duration falls back to the configured default.
func (c Config) SearchWindow(start time.Time, durationSeconds *float64) Window {
	duration := c.DefaultDuration
	if durationSeconds != nil && *durationSeconds > 0 {
		duration = time.Duration(*durationSeconds * float64(time.Second))
	}

	end := start.Add(duration)
	return Window{
		Start: start.Add(-c.WindowPadding),
		End:   end.Add(c.WindowPadding),
	}
}

// Overlaps mirrors the three-way store predicate: the meeting spans the window,
// starts inside it, or ends inside it.
func (w Window) Overlaps(m Interval) bool {
	spans := !m.Start.After(w.Start) && !m.End.Before(w.End)
	startsInside := !m.Start.Before(w.Start) && !m.Start.After(w.End)
	endsInside := !m.End.Before(w.Start) && !m.End.After(w.End)
	return spans || startsInside || endsInside
}

// ScoreMeeting rates how well a recording starting at recordedAt matches m.
// The boolean is false when the meeting is too far away to be a candidate.
func (c Config) ScoreMeeting(recordedAt time.Time, m Interval) (Score, bool) {
	if !recordedAt.Before(m.Start) && !recordedAt.After(m.End) {
		return Score{MeetingID: m.ID, Confidence: c.OverlapConfidence, Method: MethodTimeOverlap}, true
	}

	diff := absDuration(recordedAt.Sub(m.Start))
	if d := absDuration(recordedAt.Sub(m.End)); d < diff {
		diff = d
	}
	if diff > c.ProximityLimit {
		return Score{}, false
	}

	ratio := float64(diff.Milliseconds()) / float64(c.ProximityDecaySpan.Milliseconds())
	confidence := c.ProximityBase - ratio*c.ProximityDecay
	return Score{MeetingID: m.ID, Confidence: confidence, Method: MethodTimeProximity}, true
}

// ScoreAll rates every meeting and returns the scored ones plus the best one.
// Ties keep the earliest meeting in input order.
func (c Config) ScoreAll(recordedAt time.Time, meetings []Interval) ([]Score, *Score) {
	var (
		scores []Score
		best   *Score
	)
	for _, m := range meetings {
		s, ok := c.ScoreMeeting(recordedAt, m)
		if !ok {
			continue
		}
		scores = append(scores, s)
		if best == nil || s.Confidence > best.Confidence {
			b := s
			best = &b
		}
	}
	return scores, best
}

// ShouldLink reports whether a score is strong enough to become the recording's link.
func (c Config) ShouldLink(s *Score) bool {
	return s != nil && s.Confidence >= c.SelectionThreshold
}

// IsUserDecision reports whether a correlation method came from the user and
// therefore must not be replaced by automatic scoring.
func IsUserDecision(method *string) bool {
	if method == nil {
		return false
	}
	return *method == MethodUserOverride || *method == MethodUserStandalone
}

// IsAutomaticallyReplaceable reports whether passive scoring may overwrite the
// current link. User decisions and AI transcript matches are kept.
func IsAutomaticallyReplaceable(method *string) bool {
	if method == nil {
		return true
	}
	return *method == MethodTimeOverlap || *method == MethodTimeProximity
}

func absDuration(d time.Duration) time.Duration {
	return time.Duration(math.Abs(float64(d)))
}

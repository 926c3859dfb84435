package correlation

import "time"

type DurationMatch string

const (
	DurationMatched   DurationMatch = "matched"
	DurationShorter   DurationMatch = "shorter"
	DurationLonger    DurationMatch = "longer"
	DurationNoMeeting DurationMatch = "no_meeting"
	DurationUnknown   DurationMatch = "unknown"
)

// ClassifyDuration compares a recording's length with its linked meeting's
// scheduled length. meeting is nil when the recording is unlinked.
func (c Config) ClassifyDuration(durationSeconds *float64, meeting *Interval) DurationMatch {
	if meeting == nil {
		return DurationNoMeeting
	}
	if durationSeconds == nil {
		return DurationUnknown
	}

	recorded := time.Duration(*durationSeconds * float64(time.Second))
	scheduled := meeting.End.Sub(meeting.Start)
	diff := recorded - scheduled

	switch {
	case absDuration(diff) <= c.DurationMatchMargin:
		return DurationMatched
	case diff < 0:
		return DurationShorter
	default:
		return DurationLonger
	}
}

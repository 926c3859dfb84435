package hidock

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DeviceExtension is the raw container format written by the recorder.
	DeviceExtension = ".hda"
	// PlaybackExtension is the format recordings are stored under on local disk.
	PlaybackExtension = ".wav"
)

// recordingNamespace seeds the deterministic recording ids. Changing it
// re-keys every recording, so it must stay fixed.
var recordingNamespace = uuid.MustParse("6f1c2a8e-4d0b-5c7a-9e3f-2b8d1a6c4e90")

// Stem returns the lowercased filename without directory or extension.
func Stem(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ExtensionVariants returns the other names the same logical asset may be
// recorded under. A device name maps to its playback name and vice versa.
func ExtensionVariants(filename string) []string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	switch strings.ToLower(ext) {
	case DeviceExtension:
		return []string{base + PlaybackExtension}
	case PlaybackExtension:
		return []string{base + DeviceExtension}
	default:
		return nil
	}
}

// LocalFilename is the name a device file is stored under on local disk.
func LocalFilename(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	if strings.EqualFold(ext, DeviceExtension) {
		return strings.TrimSuffix(base, ext) + PlaybackExtension
	}
	return base
}

// RecordingID derives the stable id for a recording from its filename.
// Both extension variants of one asset yield the same id.
func RecordingID(filename string) uuid.UUID {
	return uuid.NewSHA1(recordingNamespace, []byte(Stem(filename)))
}

// ParseRecordingDate extracts the capture time from device names such as
// "2025May13-160405-Rec59.hda". The device clock has no zone, so the result
// is interpreted in loc.
func ParseRecordingDate(filename string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	parts := strings.SplitN(filepath.Base(filename), "-", 3)
	if len(parts) < 2 {
		return time.Time{}, false
	}

	t, err := time.ParseInLocation("2006Jan02150405", parts[0]+parts[1], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

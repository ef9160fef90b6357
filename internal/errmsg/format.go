// Package errmsg provides the engine's error taxonomy and consistent
// formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Resolver operations
	OpResolveTrack Op = "resolve track"

	// Stream operations
	OpStreamDescriptor Op = "get stream descriptor"
	OpStreamDownload   Op = "download audio"
	OpStreamDecode     Op = "decode audio"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"
	OpPlaybackLoad  Op = "load track"

	// Reporting
	OpReportPlayback Op = "report playback"

	// Persistence
	OpPrefsLoad  Op = "load preferences"
	OpPrefsSave  Op = "save preferences"
	OpQueueLoad  Op = "load queue"
	OpQueueSave  Op = "save queue"
	OpRecordPlay Op = "record recently played"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

package errmsg

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies engine failures so callers can branch without matching strings.
type Kind int

const (
	KindUnknown Kind = iota
	// KindResolution: the track exists but could not be resolved or is inaccessible.
	KindResolution
	// KindNotFound: the backend does not know the track or its audio.
	KindNotFound
	// KindAuth: the credential is missing, rejected or expired.
	KindAuth
	// KindNetwork: the transport failed.
	KindNetwork
	// KindDecode: the payload cannot be played by the media element.
	KindDecode
	// KindPlaybackRejected: the platform refused to start playback.
	KindPlaybackRejected
	// KindCanceled: the operation was superseded or aborted.
	KindCanceled
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindResolution:
		return "resolution"
	case KindNotFound:
		return "not found"
	case KindAuth:
		return "auth"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindPlaybackRejected:
		return "playback rejected"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Sentinels matching each kind, usable with errors.Is.
var (
	ErrResolution       = errors.New("track resolution failed")
	ErrNotFound         = errors.New("not found")
	ErrAuth             = errors.New("not authorized")
	ErrNetwork          = errors.New("network error")
	ErrDecode           = errors.New("cannot decode audio")
	ErrPlaybackRejected = errors.New("playback rejected")
)

func (k Kind) sentinel() error {
	switch k {
	case KindResolution:
		return ErrResolution
	case KindNotFound:
		return ErrNotFound
	case KindAuth:
		return ErrAuth
	case KindNetwork:
		return ErrNetwork
	case KindDecode:
		return ErrDecode
	case KindPlaybackRejected:
		return ErrPlaybackRejected
	case KindCanceled:
		return context.Canceled
	default:
		return nil
	}
}

// Error is a classified failure raised at an engine boundary.
type Error struct {
	Kind    Kind
	Op      Op
	TrackID string
	Err     error
}

// New wraps err with a kind and operation.
func New(kind Kind, op Op, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf is New with a formatted cause.
func Newf(kind Kind, op Op, format string, args ...any) *Error {
	return New(kind, op, fmt.Errorf(format, args...))
}

// WithTrack returns a copy of e bound to a track ID.
func (e *Error) WithTrack(id string) *Error {
	c := *e
	c.TrackID = id
	return &c
}

func (e *Error) Error() string {
	msg := string(e.Op)
	if e.TrackID != "" {
		msg += " " + e.TrackID
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg + ": " + e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind's sentinel so errors.Is(err, ErrAuth) works on wrapped values.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the kind of err. Context cancellation and deadline
// errors are reported as KindCanceled and KindNetwork respectively.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	}
	return KindUnknown
}

// IsCanceled reports whether err stems from a superseded or aborted operation.
func IsCanceled(err error) bool {
	return KindOf(err) == KindCanceled
}

// Message returns the single human-readable sentence shown to users for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case KindResolution:
		return "This track is unavailable right now."
	case KindNotFound:
		return "This track could not be found."
	case KindAuth:
		return "Your session has expired. Please sign in again."
	case KindNetwork:
		return "Network error. Check your connection and try again."
	case KindDecode:
		return "This track could not be played: the audio format is not supported or the file is damaged."
	case KindPlaybackRejected:
		return "Playback was blocked. Press play to try again."
	case KindCanceled:
		return ""
	default:
		return "Something went wrong: " + err.Error()
	}
}

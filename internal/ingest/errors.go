package ingest

import "errors"

// Recognition outcomes a SpeechSource reports. None of them are fatal.
var (
	ErrTimeout     = errors.New("no speech result before timeout")
	ErrNoSpeech    = errors.New("no speech could be recognized")
	ErrUnavailable = errors.New("speech recognition service unavailable")
)

// ErrMalformed marks a comment event that could not be turned into a record.
var ErrMalformed = errors.New("malformed comment event")

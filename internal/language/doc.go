// Package language provides language code normalization and the mapping from
// speech-detected language codes to the identifiers the text recognizer
// expects.
//
// All lookups are table driven. Unknown input never fails: recognizer lookups
// fall back to DefaultCode so callers can pass whatever the transcription
// engine reported.
package language

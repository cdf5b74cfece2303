// Package transcription turns a recorded session into timestamped transcript
// segments.
//
// Service probes the video, picks the speech audio stream, extracts it as a
// mono 16 kHz WAV into the run's scratch directory, and hands the file to a
// backend Engine (WhisperX via uvx, or in-process whisper.cpp). Segments
// with empty text or non-positive duration are dropped and the detected
// language is reduced to ISO 639-1.
package transcription

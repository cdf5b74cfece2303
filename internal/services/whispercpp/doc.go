// Package whispercpp is an in-process transcription backend built on the
// whisper.cpp Go bindings and a local ggml model file.
//
// The model is loaded once when the Engine is constructed and shared by
// every Transcribe call; each call creates its own whisper context.
package whispercpp

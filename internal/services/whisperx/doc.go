// Package whisperx runs WhisperX through uvx as a transcription backend.
//
// WhisperX executes in its own Python environment, so its torch runtime
// never loads into the interviewlens process. The service invokes
// `uvx whisperx` on a mono 16 kHz WAV file, then reads the JSON output for
// timestamped segments and the detected language.
//
// Configuration options (model, CUDA, VAD method) are passed via Config.
package whisperx

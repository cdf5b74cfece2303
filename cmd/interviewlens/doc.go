// Package main hosts the interviewlens CLI entrypoint and command graph.
//
// `analyze` builds the engines from configuration, runs one evidence
// pipeline over a recorded interview, and writes the bundle JSON. `runs`
// reads the saved history back, `doctor` reports tool and service
// readiness, and `config` scaffolds and validates configuration files.
//
// Slide text recognition runs in the separate interviewlens-ocr-worker
// binary, so this one never links Tesseract. Install both side by side or
// set recognition.worker_binary.
//
// Keep this package lean: add functionality to the internal packages first,
// then surface it through a command or flag here.
package main

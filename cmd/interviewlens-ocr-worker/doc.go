// Command interviewlens-ocr-worker runs one text recognition task.
//
// The interviewlens supervisor starts it once per run, writes a JSON task
// to stdin and reads a JSON result from stdout. Log records go to stderr as
// JSON lines and are relayed into the run log. This is the only binary that
// links Tesseract, so the recognizer never shares a process with the speech
// engine.
package main

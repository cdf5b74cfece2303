// Package slides detects candidate slide boundaries in a recorded session.
//
// Detection runs ffmpeg's scene-change scoring over the primary video
// stream and keeps a frame when its score exceeds the configured area ratio
// and enough time passed since the previous candidate. The first frame is
// always a candidate with change ratio 1.0. Every frame is scored and
// printed, so the frame numbers ffmpeg reports are the decoder indices the
// OCR extractor selects by, including on variable frame rate video.
//
// Parsing (ParseSceneScores) and selection (SelectCandidates) are pure and
// tested without ffmpeg; Detector wires them to the external binaries.
package slides

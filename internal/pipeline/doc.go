// Package pipeline sequences one evidence run over a recorded interview.
//
// The Coordinator runs its phases strictly in order: transcription, slide
// detection, isolated recognition, normalization, optional judgment, and
// assembly. Every phase reports an Outcome. OutcomeEmpty means the phase
// failed or found nothing, and the coordinator continues with the default
// for that phase. Only the input preflight (missing, non-regular, or
// unreadable video) yields OutcomeFatal, and it does so before any phase
// starts.
//
// Engines arrive through a Services value built once by the caller. The
// coordinator holds no global state; each Run gets its own run id and a
// scratch directory under Options.WorkRoot that is removed on every exit
// path unless KeepArtifacts is set.
package pipeline

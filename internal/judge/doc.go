// Package judge asks a language model to score an interview from the
// assembled evidence.
//
// The prompt pairs the clean slide timeline (where interview questions are
// usually displayed) with the timestamped transcript of the candidate's
// answers. The model answers with an Evaluation: an overall 1-10 score, a
// summary, and one QAPair per question it could identify.
//
// Evaluate never returns an error. Missing evidence and request failures are
// reported inside the returned map under "error" so the pipeline can attach
// it to the bundle and still complete.
package judge

// Package audio picks the audio stream a recording's speech is extracted from.
//
// Recordings usually carry one audio stream, but screen captures and
// conference exports can add a system-audio or commentary track. The
// selection prefers streams tagged with the requested language, skips
// commentary and descriptive-audio dispositions, and then favors the
// default-flagged stream before falling back to container order.
//
// Key types:
//   - Selection: the chosen stream plus its audio-relative position
//
// Primary entry point:
//   - Select: ranks audio streams and returns the speech source
package audio

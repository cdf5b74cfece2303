// Package textutil provides text processing utilities for recognized-text
// statistics, fuzzy similarity, and filename sanitization.
//
// The primary use cases are:
//   - Splitting recognized text into comparable tokens with edge punctuation removed
//   - Computing a normalized similarity ratio between two text samples
//   - Sanitizing filenames and path segments for safe filesystem use
//
// Similarity is case- and punctuation-insensitive and based on Levenshtein
// distance relative to the longer input.
package textutil

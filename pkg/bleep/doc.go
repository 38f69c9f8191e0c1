// Package bleep provides a small, stable facade over the redaction
// engine for programs that embed it. It re-exports a narrow API surface
// so callers can depend on a stable import path without importing the
// internal packages.
//
// Example:
//
//	clean := bleep.Redact("what the hell", bleep.WithPlaceholder("#"))
//	if bleep.Detect(comment, bleep.WithExceptions("hell")) { /* reject */ }
package bleep

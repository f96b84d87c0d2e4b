// Package sanitizer normalizes client-entered text before validation and
// storage: whitespace collapsing for names and labels, E.164 normalization
// for phone numbers. Sanitization never rejects input; that is the
// validator's job.
package sanitizer

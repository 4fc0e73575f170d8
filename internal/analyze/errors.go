package analyze

import (
	"strings"

	"pgxboard/internal/policy"
)

// fallbackMessage is shown when a failure carries no message at all.
const fallbackMessage = "Analysis failed. Please try again."

// Normalize maps a raw error string to a single user-facing sentence using
// the policy phrase table. Unmatched messages pass through unchanged; empty
// ones fall back to a generic sentence. This is the only place raw backend
// wording is interpreted, so the matching table can change without touching
// call sites.
func Normalize(rawMsg string) string {
	msg := strings.TrimSpace(rawMsg)
	if msg == "" {
		return fallbackMessage
	}
	if mapped := policy.Default.MessageFor(msg); mapped != "" {
		return mapped
	}
	return msg
}

// NormalizeErr is Normalize for error values; nil yields the empty string.
func NormalizeErr(err error) string {
	if err == nil {
		return ""
	}
	return Normalize(err.Error())
}

// blocker.go detects the needs-human-input sentinel in engine responses.
package engine

import "strings"

// Sentinel is the literal marker the engine is instructed to emit when it
// cannot proceed without human input. It must stay in sync with the
// blocking clause in prompts/agent/blocking.md.
const Sentinel = "NEED_HUMAN_INPUT:"

// Classify decides whether a completed engine response represents genuine
// completion or an unmet need for human input.
//
// It searches for the LAST occurrence of the sentinel, not the first: a
// sentinel quoted incidentally in earlier reasoning must not shadow a final
// response that supersedes it. If the sentinel is present with no trailing
// text, the response is still classified as blocked with an empty question
// so a human sees the malformed block instead of it being discarded.
func Classify(raw string) (blocked bool, question string) {
	idx := strings.LastIndex(raw, Sentinel)
	if idx < 0 {
		return false, ""
	}
	return true, strings.TrimSpace(raw[idx+len(Sentinel):])
}

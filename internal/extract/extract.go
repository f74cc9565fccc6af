// Package extract recovers JSON documents from free-form LLM responses.
//
// Models frequently wrap JSON in markdown fences or surround it with prose,
// so extraction is a best-effort text heuristic. Schema validation is the
// caller's job; this package only finds the most likely JSON candidate.
package extract

import (
	"regexp"
	"strings"
)

// The capture is anchored at '{' so a fence tagged with another language
// ("```python" etc.) is never treated as a JSON candidate.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?)```")

// JSON returns the best JSON-object candidate found in raw text.
//
// Policy, in priority order:
//  1. The first fenced code block (tagged json or untagged) whose content
//     starts with '{'; the span from that '{' to the block's last '}' is
//     returned.
//  2. The longest balanced brace span anywhere in the text.
//  3. The input unchanged, so the caller's JSON parse surfaces the failure
//     with the original response attached.
//
// Pure text processing: deterministic, no I/O.
func JSON(raw string) string {
	for _, match := range fencedBlock.FindAllStringSubmatch(raw, -1) {
		if candidate, ok := braceSpan(match[1]); ok {
			return candidate
		}
	}

	if candidate := longestBraceSpan(raw); candidate != "" {
		return candidate
	}

	return raw
}

// braceSpan cuts text down to its first '{' through its last '}'.
func braceSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// longestBraceSpan scans for non-overlapping balanced brace spans and returns
// the longest one. The longest span is most likely the complete structured
// object rather than a fragment.
func longestBraceSpan(text string) string {
	var longest string
	for i := 0; i < len(text); {
		if text[i] != '{' {
			i++
			continue
		}

		depth := 0
		end := -1
		for j := i; j < len(text); j++ {
			switch text[j] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					end = j
				}
			}
			if end != -1 {
				break
			}
		}

		// An unclosed brace at i may still hide a balanced span further in.
		if end == -1 {
			i++
			continue
		}

		if span := text[i : end+1]; len(span) > len(longest) {
			longest = span
		}
		i = end + 1
	}
	return longest
}

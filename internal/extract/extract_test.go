package extract

import (
	"encoding/json"
	"testing"
)

func TestJSONFencedBlock(t *testing.T) {
	input := "intro text ```json\n{\"a\":1}\n``` trailing"
	got := JSON(input)
	if got != `{"a":1}` {
		t.Errorf("Expected fenced object, got %q", got)
	}
}

func TestJSONUntaggedFence(t *testing.T) {
	input := "```\n{\"plan\": []}\n```"
	got := JSON(input)
	if got != `{"plan": []}` {
		t.Errorf("Expected object from untagged fence, got %q", got)
	}
}

func TestJSONFirstFenceWins(t *testing.T) {
	input := "```json\n{\"first\": true}\n```\nand later ```json\n{\"second\": true}\n```"
	got := JSON(input)
	if got != `{"first": true}` {
		t.Errorf("Expected first fenced block, got %q", got)
	}
}

func TestJSONLongestBraceSpan(t *testing.T) {
	input := `some text {"x":1} more text {"y":2,"z":3} end`
	got := JSON(input)
	if got != `{"y":2,"z":3}` {
		t.Errorf("Expected longest brace span, got %q", got)
	}
}

func TestJSONNestedBraces(t *testing.T) {
	input := `result: {"outer": {"inner": 1}} done`
	got := JSON(input)
	if got != `{"outer": {"inner": 1}}` {
		t.Errorf("Expected full nested object, got %q", got)
	}
	if !json.Valid([]byte(got)) {
		t.Errorf("Extracted span is not valid JSON: %q", got)
	}
}

func TestJSONForeignTaggedFenceIgnored(t *testing.T) {
	input := "```python\nd = {\"a\":1}\n```\nfinal answer: {\"bb\":22,\"c\":3}"
	got := JSON(input)
	if got != `{"bb":22,"c":3}` {
		t.Errorf("Expected python fence skipped in favor of brace span, got %q", got)
	}
}

func TestJSONFenceContentMustStartWithObject(t *testing.T) {
	input := "```json\nsee {\"x\":1}\n``` and later {\"longer\":true,\"y\":2}"
	got := JSON(input)
	if got != `{"longer":true,"y":2}` {
		t.Errorf("Expected brace-span fallback for prose-prefixed fence, got %q", got)
	}
}

func TestJSONNoBraces(t *testing.T) {
	input := "the model refused to answer"
	if got := JSON(input); got != input {
		t.Errorf("Expected input returned unchanged, got %q", got)
	}
}

func TestJSONFenceWithoutObjectFallsThrough(t *testing.T) {
	input := "```\njust prose\n``` but later {\"a\": 1}"
	got := JSON(input)
	if got != `{"a": 1}` {
		t.Errorf("Expected brace-span fallback, got %q", got)
	}
}

func TestJSONDeterministic(t *testing.T) {
	input := "noise {\"a\":1} noise {\"bb\":22} noise"
	first := JSON(input)
	for i := 0; i < 10; i++ {
		if got := JSON(input); got != first {
			t.Fatalf("Extraction is not deterministic: %q vs %q", first, got)
		}
	}
}

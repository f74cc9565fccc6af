// Package shared holds the small cross-cutting types that both the LLM
// clients and the planning loop need without importing each other.
package shared

import "time"

// TokenUsage is the token accounting one completion call reports.
type TokenUsage struct {
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// AgentMeta records who made a call and what it cost. The planning loop
// collects one per completion call, including calls that later fail, so
// usage is never under-reported.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}

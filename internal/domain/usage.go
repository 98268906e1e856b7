package domain

import "time"

// UsageRecord captures one successful completion request for accounting.
// Records are immutable once appended to the ledger.
type UsageRecord struct {
	ID           string      `json:"id"`
	SessionID    string      `json:"session_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Model        string      `json:"model"`
	Family       ModelFamily `json:"family"`
	InputTokens  int         `json:"input_tokens"`
	OutputTokens int         `json:"output_tokens"`
	CostUSD      float64     `json:"cost"`
	// PriceKnown is false when the model was missing from the price table
	// and the cost defaulted to zero.
	PriceKnown bool   `json:"price_known"`
	Prompt     string `json:"prompt"`
	Answer     string `json:"response"`
	ElapsedMS  int64  `json:"elapsed_ms"`
}

// SessionSummary is a pure projection over the ledger, recomputed on demand.
type SessionSummary struct {
	Requests          int            `json:"total_requests"`
	CacheHits         int            `json:"cache_hits"`
	HitRate           float64        `json:"hit_rate"`
	TotalInputTokens  int            `json:"total_input_tokens"`
	TotalOutputTokens int            `json:"total_output_tokens"`
	TotalCostUSD      float64        `json:"total_cost"`
	UnpricedRequests  int            `json:"unpriced_requests"`
	Models            map[string]int `json:"models"`
}

// SessionExport is the JSON document written by ledger export.
type SessionExport struct {
	Records []UsageRecord  `json:"records"`
	Summary SessionSummary `json:"summary"`
}

// Summarize folds records and a hit counter into a SessionSummary.
func Summarize(records []UsageRecord, cacheHits int) SessionSummary {
	summary := SessionSummary{
		Requests:  len(records),
		CacheHits: cacheHits,
		Models:    make(map[string]int),
	}
	for _, rec := range records {
		summary.TotalInputTokens += rec.InputTokens
		summary.TotalOutputTokens += rec.OutputTokens
		summary.TotalCostUSD += rec.CostUSD
		if !rec.PriceKnown {
			summary.UnpricedRequests++
		}
		summary.Models[rec.Model]++
	}
	if total := summary.Requests + summary.CacheHits; total > 0 {
		summary.HitRate = float64(summary.CacheHits) / float64(total)
	}
	return summary
}

// TruncateForAudit trims text kept on usage records for display.
func TruncateForAudit(text string) string {
	runes := []rune(text)
	if len(runes) <= AuditTextLimit {
		return text
	}
	return string(runes[:AuditTextLimit]) + "..."
}

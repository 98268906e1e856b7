package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSummarizeAccumulatesTokenCounts(t *testing.T) {
	records := []UsageRecord{
		{Model: "nova-lite", InputTokens: 10, OutputTokens: 40, CostUSD: 0.001, PriceKnown: true},
		{Model: "nova-lite", InputTokens: 25, OutputTokens: 75, CostUSD: 0.002, PriceKnown: true},
		{Model: "claude-sonnet", InputTokens: 5, OutputTokens: 15, PriceKnown: false},
	}

	got := Summarize(records, 2)
	want := SessionSummary{
		Requests:          3,
		CacheHits:         2,
		HitRate:           0.4,
		TotalInputTokens:  40,
		TotalOutputTokens: 130,
		TotalCostUSD:      0.003,
		UnpricedRequests:  1,
		Models:            map[string]int{"nova-lite": 2, "claude-sonnet": 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeEmptyLedger(t *testing.T) {
	got := Summarize(nil, 0)
	if got.Requests != 0 || got.HitRate != 0 || got.TotalCostUSD != 0 {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

func TestSummarizeCostMonotonic(t *testing.T) {
	var records []UsageRecord
	prev := 0.0
	for i := 0; i < 5; i++ {
		records = append(records, UsageRecord{Model: "m", InputTokens: 100, OutputTokens: 100, CostUSD: 0.0005, PriceKnown: true})
		sum := Summarize(records, 0)
		if sum.TotalCostUSD < prev {
			t.Fatalf("cost decreased: %f -> %f", prev, sum.TotalCostUSD)
		}
		prev = sum.TotalCostUSD
	}
}

func TestTruncateForAudit(t *testing.T) {
	short := "short prompt"
	if got := TruncateForAudit(short); got != short {
		t.Fatalf("short text modified: %q", got)
	}
	long := strings.Repeat("x", AuditTextLimit+50)
	got := TruncateForAudit(long)
	if len([]rune(got)) != AuditTextLimit+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation result: %d chars", len(got))
	}
}

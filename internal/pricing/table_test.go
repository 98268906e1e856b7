package pricing

import (
	"math"
	"testing"

	"github.com/doeshing/askai-go/internal/domain"
)

func TestLoadDefaultCoversCoreFamilies(t *testing.T) {
	table, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	for _, model := range []string{
		"claude-3-5-sonnet-20240620",
		"gpt-4o-mini",
		"amazon.nova-lite-v1:0",
	} {
		if _, ok := table.Lookup(model); !ok {
			t.Errorf("no pricing for %s", model)
		}
	}
}

func TestLookupPrefersLongestPrefix(t *testing.T) {
	table := Table{
		"gpt-4o":      {Input: 2.5, Output: 10.0},
		"gpt-4o-mini": {Input: 0.15, Output: 0.6},
	}
	p, ok := table.Lookup("gpt-4o-mini-2024-07-18")
	if !ok {
		t.Fatal("expected a match")
	}
	if p.Input != 0.15 {
		t.Fatalf("expected mini rate, got %v", p)
	}
}

func TestCalculatorCost(t *testing.T) {
	table := Table{"amazon.nova-lite-v1": {Input: 0.06, Output: 0.24}}
	calc := NewCalculator(table)

	cost, ok := calc.Cost("amazon.nova-lite-v1:0", domain.TokenUsage{Input: 1_000_000, Output: 500_000})
	if !ok {
		t.Fatal("expected model to be priced")
	}
	want := 0.06 + 0.12
	if math.Abs(cost-want) > 1e-9 {
		t.Fatalf("cost = %f, want %f", cost, want)
	}
}

func TestCalculatorUnknownModelCostsZero(t *testing.T) {
	calc := NewCalculator(Table{})
	cost, ok := calc.Cost("mystery-model", domain.TokenUsage{Input: 100, Output: 100})
	if ok {
		t.Fatal("unknown model should not report as priced")
	}
	if cost != 0 {
		t.Fatalf("unknown model cost = %f, want 0", cost)
	}
}

func TestMergeOverwrites(t *testing.T) {
	table := Table{"m": {Input: 1}}
	table.Merge(Table{"m": {Input: 2}, "n": {Input: 3}})
	if table["m"].Input != 2 || table["n"].Input != 3 {
		t.Fatalf("merge result unexpected: %+v", table)
	}
}

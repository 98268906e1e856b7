// Package pricing maintains the static per-model price table used to derive
// request costs from token counts.
package pricing

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/doeshing/askai-go/internal/domain"
	"github.com/doeshing/askai-go/internal/ports"
)

//go:embed pricing.json
var defaultPricingJSON []byte

// ModelPricing holds USD rates per 1M tokens.
type ModelPricing struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// Table maps a model ID prefix to its rates.
type Table map[string]ModelPricing

// LoadDefault parses the embedded price table.
func LoadDefault() (Table, error) {
	var table Table
	if err := json.Unmarshal(defaultPricingJSON, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// Merge adds entries from other into t. Existing keys are overwritten.
func (t Table) Merge(other Table) {
	for k, v := range other {
		t[k] = v
	}
}

// Lookup finds pricing for a model, trying exact match then longest prefix
// match. The longest prefix wins so "claude-3-5-sonnet" beats "claude".
func (t Table) Lookup(modelID string) (ModelPricing, bool) {
	if p, ok := t[modelID]; ok {
		return p, true
	}
	var bestKey string
	var bestPricing ModelPricing
	for key, p := range t {
		if strings.HasPrefix(modelID, key) && len(key) > len(bestKey) {
			bestKey = key
			bestPricing = p
		}
	}
	if bestKey != "" {
		return bestPricing, true
	}
	return ModelPricing{}, false
}

// Calculator implements ports.CostCalculator over a Table.
type Calculator struct {
	table Table
}

// NewCalculator builds a calculator for the given table.
func NewCalculator(table Table) *Calculator {
	return &Calculator{table: table}
}

// Cost returns the USD cost for the usage of one request. Unknown models
// cost zero and report false rather than guessing a rate.
func (c *Calculator) Cost(modelID string, usage domain.TokenUsage) (float64, bool) {
	p, ok := c.table.Lookup(modelID)
	if !ok {
		return 0, false
	}
	cost := float64(usage.Input) * p.Input / 1_000_000
	cost += float64(usage.Output) * p.Output / 1_000_000
	return cost, true
}

var _ ports.CostCalculator = (*Calculator)(nil)

package helpers

import (
	"sort"
)

// ModelStatistic represents request counts for a single model
type ModelStatistic struct {
	Model string
	Count int
}

// CalculateTopModels returns the top N most frequently used models
// If limit is 0 or negative, returns all models
func CalculateTopModels(modelFrequency map[string]int, limit int) []ModelStatistic {
	stats := convertFrequencyMapToStatistics(modelFrequency)
	sortStatisticsByFrequency(stats)

	if shouldLimitResults(limit, len(stats)) {
		return stats[:limit]
	}
	return stats
}

// convertFrequencyMapToStatistics converts a map to a slice of ModelStatistic
func convertFrequencyMapToStatistics(frequency map[string]int) []ModelStatistic {
	stats := make([]ModelStatistic, 0, len(frequency))
	for model, count := range frequency {
		stats = append(stats, ModelStatistic{
			Model: model,
			Count: count,
		})
	}
	return stats
}

// sortStatisticsByFrequency sorts statistics by count (descending) then by model name (ascending)
func sortStatisticsByFrequency(stats []ModelStatistic) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Model < stats[j].Model
		}
		return stats[i].Count > stats[j].Count
	})
}

// shouldLimitResults checks if we should limit the results based on the limit and actual length
func shouldLimitResults(limit int, actualLength int) bool {
	return limit > 0 && actualLength > limit
}

// CalculateHitRatePercent calculates the cache hit rate as a percentage
func CalculateHitRatePercent(hits int, requests int) float64 {
	total := hits + requests
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total) * 100.0
}

package analytics

import (
	"math"

	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

// minRelativeDeviation keeps near-flat series from flagging: a point must
// sit at least this far from the mean, relative to the mean's magnitude,
// before its z-score counts.
const minRelativeDeviation = 0.1

// detectAnomalies flags values whose z-score against the column's population
// mean reaches the threshold and whose deviation is material relative to the
// mean. Columns with fewer than five points or zero variance are skipped.
func detectAnomalies(values []float64, labels []string, zThreshold float64) []models.AnomalyEntry {
	if len(values) < 5 {
		return nil
	}

	m := mean(values)
	stdDev := populationStdDev(values, m)
	if stdDev == 0 {
		return nil
	}

	var entries []models.AnomalyEntry
	for i, v := range values {
		z := (v - m) / stdDev
		if math.Abs(z) < zThreshold {
			continue
		}
		if m != 0 && math.Abs(v-m) < minRelativeDeviation*math.Abs(m) {
			continue
		}
		direction := "high"
		if z < 0 {
			direction = "low"
		}
		entry := models.AnomalyEntry{
			Index:     i,
			Value:     v,
			ZScore:    round2(z),
			Direction: direction,
			Deviation: round2(math.Abs(v - m)),
		}
		if i < len(labels) {
			entry.Label = labels[i]
		}
		entries = append(entries, entry)
	}
	return entries
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func populationStdDev(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

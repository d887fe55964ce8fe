package analytics

import (
	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

// autocorrelation measures self-similarity of a series at a fixed lag,
// normalized by the series variance.
func autocorrelation(values []float64, lag int) float64 {
	n := len(values)
	if lag <= 0 || lag >= n {
		return 0
	}

	m := mean(values)
	var variance, covariance float64
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	for i := 0; i < n-lag; i++ {
		covariance += (values[i] - m) * (values[i+lag] - m)
	}
	if variance == 0 {
		return 0
	}
	return covariance / variance
}

// detectSeasonality scans lags 2..min(n/2, 12) and reports the strongest
// one if it clears the threshold. Lag maps to a human period: quarterly at
// <=4, weekly at <=7, monthly otherwise.
func detectSeasonality(values []float64, threshold float64) *models.SeasonalityResult {
	maxLag := len(values) / 2
	if maxLag > 12 {
		maxLag = 12
	}
	if maxLag < 2 {
		return nil
	}

	bestLag := 0
	bestStrength := 0.0
	for lag := 2; lag <= maxLag; lag++ {
		strength := autocorrelation(values, lag)
		if strength > bestStrength {
			bestStrength = strength
			bestLag = lag
		}
	}
	if bestStrength < threshold {
		return nil
	}

	label := "monthly"
	switch {
	case bestLag <= 4:
		label = "quarterly"
	case bestLag <= 7:
		label = "weekly"
	}

	return &models.SeasonalityResult{
		Period:   bestLag,
		Strength: round2(bestStrength),
		Label:    label,
	}
}

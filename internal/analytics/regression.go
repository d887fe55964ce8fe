package analytics

import (
	"math"

	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

// linearRegression fits a closed-form least-squares line over row index vs.
// value, with x running 0..n-1.
func linearRegression(values []float64) (models.RegressionLine, bool) {
	n := float64(len(values))
	if n < 2 {
		return models.RegressionLine{}, false
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return models.RegressionLine{}, false
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, y := range values {
		predicted := slope*float64(i) + intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}

	// A flat series has no trend worth projecting.
	if ssTot == 0 {
		return models.RegressionLine{}, false
	}
	rSquared := 1 - ssRes/ssTot
	if math.IsNaN(rSquared) || math.IsInf(rSquared, 0) {
		return models.RegressionLine{}, false
	}

	return models.RegressionLine{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared,
	}, true
}

// forecastHorizon scales the number of extrapolated points with the series
// length, clamped to 3..5.
func forecastHorizon(rowCount int) int {
	h := int(math.Round(0.2 * float64(rowCount)))
	if h < 3 {
		h = 3
	}
	if h > 5 {
		h = 5
	}
	return h
}

// extrapolate continues the fitted line past the observed series.
func extrapolate(line models.RegressionLine, rowCount, horizon int) []float64 {
	predicted := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		x := float64(rowCount + i)
		predicted[i] = line.Slope*x + line.Intercept
	}
	return predicted
}

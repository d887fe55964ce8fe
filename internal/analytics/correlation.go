package analytics

import (
	"math"
	"sort"

	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

// columnSample is one column's parsed values with the sheet row index each
// value came from. Unparseable cells leave holes, so two columns may cover
// different row sets.
type columnSample struct {
	rows   []int
	values []float64
}

// alignPair keeps only the rows parseable in both columns, pairing values
// by sheet row rather than by compacted position.
func alignPair(a, b columnSample) (x, y []float64) {
	byRow := make(map[int]float64, len(b.rows))
	for i, row := range b.rows {
		byRow[row] = b.values[i]
	}
	for i, row := range a.rows {
		if v, ok := byRow[row]; ok {
			x = append(x, a.values[i])
			y = append(y, v)
		}
	}
	return x, y
}

// pearson computes the Pearson correlation coefficient over two aligned
// series. Pairs need at least three points and nonzero variance on both
// sides.
func pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 3 {
		return 0, false
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
		sumYY += y[i] * y[i]
	}

	fn := float64(n)
	denom := math.Sqrt(fn*sumXX-sumX*sumX) * math.Sqrt(fn*sumYY-sumY*sumY)
	if denom == 0 {
		return 0, false
	}
	return (fn*sumXY - sumX*sumY) / denom, true
}

// correlationStrength buckets |r| into the reported strength labels.
func correlationStrength(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs >= 0.85:
		return "very strong"
	case abs >= 0.7:
		return "strong"
	default:
		return "moderate"
	}
}

// buildCorrelation produces the pairwise matrix for one sheet's numeric
// columns plus the insights whose |r| clears the threshold, sorted by |r|
// descending.
func buildCorrelation(sheet string, columns []string, samples []columnSample, threshold float64) *models.CorrelationMatrix {
	n := len(columns)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}

	var insights []models.CorrelationInsight
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			x, y := alignPair(samples[i], samples[j])
			r, ok := pearson(x, y)
			if !ok {
				continue
			}
			r = round2(r)
			matrix[i][j] = r
			matrix[j][i] = r
			if math.Abs(r) < threshold {
				continue
			}
			direction := "positive"
			if r < 0 {
				direction = "negative"
			}
			insights = append(insights, models.CorrelationInsight{
				Col1:      columns[i],
				Col2:      columns[j],
				R:         r,
				Strength:  correlationStrength(r),
				Direction: direction,
			})
		}
	}

	sort.SliceStable(insights, func(a, b int) bool {
		return math.Abs(insights[a].R) > math.Abs(insights[b].R)
	})

	return &models.CorrelationMatrix{
		Sheet:    sheet,
		Columns:  columns,
		Matrix:   matrix,
		Insights: insights,
	}
}

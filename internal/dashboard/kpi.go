package dashboard

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sheetsage/sheetsage-ai-go/internal/classifier"
	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

// columnSeries is one numeric column aligned with the sheet's label values.
// Values holds a point per row with unparseable cells as zero; Parsed holds
// only the cells that parsed, with their row indices.
type columnSeries struct {
	Header        string
	Values        []float64
	Parsed        []float64
	ParsedIndices []int
}

// extractSeries parses one numeric column out of a sheet.
func extractSeries(sheet *models.SheetTable, header string) columnSeries {
	series := columnSeries{Header: header, Values: make([]float64, len(sheet.Rows))}
	for i, row := range sheet.Rows {
		if v, ok := classifier.ParseNumeric(row[header]); ok {
			series.Values[i] = v
			series.Parsed = append(series.Parsed, v)
			series.ParsedIndices = append(series.ParsedIndices, i)
		}
	}
	return series
}

// computeKPI builds the statistical summary for one numeric column.
// Magnitudes round to 2 decimals, percentages to 1.
func computeKPI(series columnSeries, labels []string) models.KPI {
	kpi := models.KPI{Label: series.Header, Count: len(series.Parsed)}
	if len(series.Parsed) == 0 {
		return kpi
	}

	values := series.Parsed
	total := 0.0
	maxVal := values[0]
	minVal := values[0]
	maxIdx := 0
	for i, v := range values {
		total += v
		if v > maxVal {
			maxVal = v
			maxIdx = i
		}
		if v < minVal {
			minVal = v
		}
	}
	avg := total / float64(len(values))

	kpi.Total = round2(total)
	kpi.Avg = round2(avg)
	kpi.Max = round2(maxVal)
	kpi.Min = round2(minVal)
	kpi.Median = round2(median(values))
	kpi.StdDev = round2(populationStdDev(values, avg))
	kpi.Trend = round1(trendPercent(values))
	kpi.GrowthRate = round1(growthPercent(values))

	peakRow := series.ParsedIndices[maxIdx]
	if peakRow < len(labels) {
		kpi.PeakLabel = labels[peakRow]
	}
	return kpi
}

// median returns the middle value, averaging the two central points for
// even-length series.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// populationStdDev computes the population standard deviation around a
// known mean.
func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// trendPercent compares the second-half mean against the first-half mean.
func trendPercent(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mid := len(values) / 2
	first := mean(values[:mid])
	second := mean(values[mid:])
	if first == 0 {
		return 0
	}
	return (second - first) / math.Abs(first) * 100
}

// growthPercent compares the last value against the first.
func growthPercent(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	first := values[0]
	last := values[len(values)-1]
	if first == 0 {
		return 0
	}
	return (last - first) / math.Abs(first) * 100
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

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

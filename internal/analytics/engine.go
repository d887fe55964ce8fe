package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sheetsage/sheetsage-ai-go/internal/classifier"
	"github.com/sheetsage/sheetsage-ai-go/internal/config"
	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

// Engine runs the predictive pass over classified sheets: regression
// forecasts, moving averages, anomaly detection, one global correlation
// matrix, seasonality, and template insights. It is stateless per call and
// never fails on absence of a pattern.
type Engine struct {
	cfg    *config.AnalyticsConfig
	logger *logrus.Logger
}

// New creates an Engine.
func New(cfg *config.AnalyticsConfig, logger *logrus.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

// numericSeries is one analyzed column with labels and sheet row indices
// aligned to its parsed values.
type numericSeries struct {
	sheet  string
	column string
	values []float64
	labels []string
	rows   []int
}

// Analyze computes the full report. Chart configurations carry the numeric
// column election and KPIs, so sheets without a primary chart are skipped.
func (e *Engine) Analyze(sheets []models.SheetTable, charts []models.ChartConfig) *models.AnalyticsReport {
	report := &models.AnalyticsReport{
		Forecasts:      []models.ForecastResult{},
		Anomalies:      []models.AnomalyRecord{},
		Insights:       []models.Insight{},
		MovingAverages: map[string]models.MovingAverageSet{},
	}

	primaries := primaryCharts(charts)
	var analyzed []numericSeries
	var kpis []models.KPI

	for i := range sheets {
		sheet := &sheets[i]
		primary, ok := primaries[sheet.SheetName]
		if !ok || sheet.RowCount() < 3 {
			continue
		}
		kpis = append(kpis, primary.KPIs...)

		columns := primary.DataColumns
		if limit := e.cfg.MaxForecastColumns; limit > 0 && len(columns) > limit {
			columns = columns[:limit]
		}
		for _, column := range columns {
			series := extractNumericSeries(sheet, column, primary.Labels)
			if len(series.values) == 0 {
				continue
			}
			analyzed = append(analyzed, series)
			e.analyzeColumn(series, report)
		}
	}

	report.Correlations = e.correlations(sheets, primaries)
	if len(analyzed) > 0 {
		report.Seasonality = detectSeasonality(analyzed[0].values, e.cfg.AutocorrelationThreshold)
	}
	report.Insights = synthesizeInsights(kpis, report)

	e.logger.WithFields(logrus.Fields{
		"forecasts": len(report.Forecasts),
		"anomalies": len(report.Anomalies),
		"insights":  len(report.Insights),
	}).Debug("Analytics pass complete")

	return report
}

// analyzeColumn adds the per-column artifacts: forecast when the fit clears
// the R² gate, moving averages, and anomalies.
func (e *Engine) analyzeColumn(series numericSeries, report *models.AnalyticsReport) {
	if line, ok := linearRegression(series.values); ok && line.RSquared > e.cfg.MinRSquared {
		horizon := forecastHorizon(len(series.values))
		report.Forecasts = append(report.Forecasts, models.ForecastResult{
			Sheet:  series.sheet,
			Column: series.column,
			Regression: models.RegressionLine{
				Slope:     round2(line.Slope),
				Intercept: round2(line.Intercept),
				RSquared:  round2(line.RSquared),
			},
			PredictedValues: roundAll(extrapolate(line, len(series.values), horizon)),
		})
	}

	report.MovingAverages[seriesKey(series)] = movingAverages(series.values)

	if entries := detectAnomalies(series.values, series.labels, e.cfg.AnomalyZThreshold); len(entries) > 0 {
		report.Anomalies = append(report.Anomalies, models.AnomalyRecord{
			Sheet:   series.sheet,
			Column:  series.column,
			Entries: entries,
		})
	}
}

// correlations builds one global matrix from the first sheet carrying at
// least two numeric columns.
func (e *Engine) correlations(sheets []models.SheetTable, primaries map[string]*models.ChartConfig) *models.CorrelationMatrix {
	for i := range sheets {
		sheet := &sheets[i]
		primary, ok := primaries[sheet.SheetName]
		if !ok || sheet.RowCount() < 3 || len(primary.DataColumns) < 2 {
			continue
		}

		columns := primary.DataColumns
		if limit := e.cfg.MaxCorrelationColumns; limit > 0 && len(columns) > limit {
			columns = columns[:limit]
		}
		samples := make([]columnSample, len(columns))
		for j, column := range columns {
			series := extractNumericSeries(sheet, column, primary.Labels)
			samples[j] = columnSample{rows: series.rows, values: series.values}
		}
		return buildCorrelation(sheet.SheetName, columns, samples, e.cfg.CorrelationThreshold)
	}
	return nil
}

func primaryCharts(charts []models.ChartConfig) map[string]*models.ChartConfig {
	primaries := make(map[string]*models.ChartConfig)
	for i := range charts {
		if charts[i].IsSecondary {
			continue
		}
		if _, ok := primaries[charts[i].SheetName]; !ok {
			primaries[charts[i].SheetName] = &charts[i]
		}
	}
	return primaries
}

func extractNumericSeries(sheet *models.SheetTable, column string, labels []string) numericSeries {
	series := numericSeries{sheet: sheet.SheetName, column: column}
	for i, row := range sheet.Rows {
		v, ok := classifier.ParseNumeric(row[column])
		if !ok {
			continue
		}
		series.values = append(series.values, v)
		series.rows = append(series.rows, i)
		if i < len(labels) {
			series.labels = append(series.labels, labels[i])
		} else {
			series.labels = append(series.labels, "")
		}
	}
	return series
}

func seriesKey(series numericSeries) string {
	return fmt.Sprintf("%s:%s", series.sheet, series.column)
}

func roundAll(values []float64) []float64 {
	rounded := make([]float64, len(values))
	for i, v := range values {
		rounded[i] = round2(v)
	}
	return rounded
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

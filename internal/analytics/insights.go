package analytics

import (
	"fmt"
	"math"

	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

// synthesizeInsights renders the rule templates: per-KPI trend and
// variability statements for the leading columns, the top correlation, an
// anomaly summary, the best forecast, and seasonality when present.
func synthesizeInsights(kpis []models.KPI, report *models.AnalyticsReport) []models.Insight {
	var insights []models.Insight

	limit := len(kpis)
	if limit > 4 {
		limit = 4
	}
	for _, kpi := range kpis[:limit] {
		switch {
		case kpi.Trend > 10:
			insights = append(insights, models.Insight{
				Kind: models.InsightPositive,
				Text: fmt.Sprintf("%s is trending up %.1f%% over the period", kpi.Label, kpi.Trend),
			})
		case kpi.Trend < -10:
			insights = append(insights, models.Insight{
				Kind: models.InsightWarning,
				Text: fmt.Sprintf("%s is declining %.1f%% over the period", kpi.Label, math.Abs(kpi.Trend)),
			})
		}
		if kpi.Avg != 0 && kpi.StdDev > 0.5*math.Abs(kpi.Avg) {
			insights = append(insights, models.Insight{
				Kind: models.InsightInfo,
				Text: fmt.Sprintf("%s shows high variability (std dev %.2f against average %.2f)", kpi.Label, kpi.StdDev, kpi.Avg),
			})
		}
	}

	if report.Correlations != nil && len(report.Correlations.Insights) > 0 {
		top := report.Correlations.Insights[0]
		insights = append(insights, models.Insight{
			Kind: models.InsightInfo,
			Text: fmt.Sprintf("%s and %s have a %s %s correlation (r=%.2f)", top.Col1, top.Col2, top.Strength, top.Direction, top.R),
		})
	}

	if text := anomalySummary(report.Anomalies); text != "" {
		insights = append(insights, models.Insight{Kind: models.InsightWarning, Text: text})
	}

	if forecast := bestForecast(report.Forecasts); forecast != nil {
		direction := "upward"
		if forecast.Regression.Slope < 0 {
			direction = "downward"
		}
		next := 0.0
		if len(forecast.PredictedValues) > 0 {
			next = forecast.PredictedValues[0]
		}
		insights = append(insights, models.Insight{
			Kind: models.InsightInfo,
			Text: fmt.Sprintf("%s projects %s to around %.2f next period (R²=%.2f)", forecast.Column, direction, next, forecast.Regression.RSquared),
		})
	}

	if report.Seasonality != nil {
		insights = append(insights, models.Insight{
			Kind: models.InsightInfo,
			Text: fmt.Sprintf("A %s pattern repeats every %d rows (autocorrelation %.2f)", report.Seasonality.Label, report.Seasonality.Period, report.Seasonality.Strength),
		})
	}

	return insights
}

// anomalySummary groups flagged outliers into one high/low statement.
func anomalySummary(records []models.AnomalyRecord) string {
	high := 0
	low := 0
	for _, record := range records {
		for _, entry := range record.Entries {
			if entry.Direction == "high" {
				high++
			} else {
				low++
			}
		}
	}
	switch {
	case high > 0 && low > 0:
		return fmt.Sprintf("Detected %d unusually high and %d unusually low values across the data", high, low)
	case high > 0:
		return fmt.Sprintf("Detected %d unusually high values across the data", high)
	case low > 0:
		return fmt.Sprintf("Detected %d unusually low values across the data", low)
	}
	return ""
}

// bestForecast picks the forecast with the highest R².
func bestForecast(forecasts []models.ForecastResult) *models.ForecastResult {
	var best *models.ForecastResult
	for i := range forecasts {
		if best == nil || forecasts[i].Regression.RSquared > best.Regression.RSquared {
			best = &forecasts[i]
		}
	}
	return best
}

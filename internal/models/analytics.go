package models

// RegressionLine is a closed-form least-squares fit over row index vs. value.
type RegressionLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// ForecastResult is a regression-based projection for one numeric column.
type ForecastResult struct {
	Sheet           string         `json:"sheet"`
	Column          string         `json:"column"`
	Regression      RegressionLine `json:"regression"`
	PredictedValues []float64      `json:"predicted_values"`
}

// AnomalyEntry is one flagged outlier within a column.
type AnomalyEntry struct {
	Index     int     `json:"index"`
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	ZScore    float64 `json:"z_score"`
	Direction string  `json:"direction"` // "high" or "low"
	Deviation float64 `json:"deviation"`
}

// AnomalyRecord is the outlier report for one numeric column.
type AnomalyRecord struct {
	Sheet   string         `json:"sheet"`
	Column  string         `json:"column"`
	Entries []AnomalyEntry `json:"entries"`
}

// CorrelationInsight describes one notable pairwise relationship.
type CorrelationInsight struct {
	Col1      string  `json:"col1"`
	Col2      string  `json:"col2"`
	R         float64 `json:"r"`
	Strength  string  `json:"strength"`  // "very strong", "strong", "moderate"
	Direction string  `json:"direction"` // "positive" or "negative"
}

// CorrelationMatrix holds pairwise Pearson coefficients for the numeric
// columns of one sheet.
type CorrelationMatrix struct {
	Sheet    string               `json:"sheet,omitempty"`
	Columns  []string             `json:"columns"`
	Matrix   [][]float64          `json:"matrix"`
	Insights []CorrelationInsight `json:"insights"`
}

// SeasonalityResult reports a repeating pattern found via autocorrelation.
type SeasonalityResult struct {
	Period   int     `json:"period"`
	Strength float64 `json:"strength"`
	Label    string  `json:"label"` // "quarterly", "weekly", "monthly"
}

// InsightKind tones a synthesized statement for presentation.
type InsightKind string

const (
	InsightPositive InsightKind = "positive"
	InsightWarning  InsightKind = "warning"
	InsightInfo     InsightKind = "info"
)

// Insight is one synthesized natural-language statement.
type Insight struct {
	Kind InsightKind `json:"kind"`
	Text string      `json:"text"`
}

// MovingAverageSet holds the smoothed series for one column. The first
// window-1 points of each series are nil.
type MovingAverageSet struct {
	Window3 []*float64 `json:"window_3"`
	Window5 []*float64 `json:"window_5,omitempty"`
}

// AnalyticsReport is the combined output of the predictive analytics pass.
// Absent patterns yield empty collections, never errors.
type AnalyticsReport struct {
	Forecasts      []ForecastResult            `json:"forecasts"`
	Correlations   *CorrelationMatrix          `json:"correlations,omitempty"`
	Anomalies      []AnomalyRecord             `json:"anomalies"`
	Insights       []Insight                   `json:"insights"`
	MovingAverages map[string]MovingAverageSet `json:"moving_averages"`
	Seasonality    *SeasonalityResult          `json:"seasonality,omitempty"`
}

// DashboardResult is the serializable structure handed to the external
// persistence/presentation collaborator.
type DashboardResult struct {
	RequestID string           `json:"request_id"`
	Charts    []ChartConfig    `json:"charts"`
	Analytics *AnalyticsReport `json:"analytics"`
}

package dashboard

import "github.com/sheetsage/sheetsage-ai-go/internal/models"

// chartTypeRule is one entry of the ordered chart-selection table. The
// first rule whose predicate holds wins. Conditions overlap by design:
// the order biases low-cardinality categorical data toward composition
// charts and long ordered series toward line charts, so reordering is a
// breaking change.
type chartTypeRule struct {
	name  string
	when  func(label models.ColumnType, numericCols, rows int) bool
	chart models.ChartType
}

var chartTypeRules = []chartTypeRule{
	{
		name:  "single_series_small_category_doughnut",
		when:  func(label models.ColumnType, n, rows int) bool { return n == 1 && rows <= 10 && label == models.ColumnCategory },
		chart: models.ChartDoughnut,
	},
	{
		name:  "date_few_series_line",
		when:  func(label models.ColumnType, n, rows int) bool { return label == models.ColumnDate && n <= 3 },
		chart: models.ChartLine,
	},
	{
		name:  "date_many_series_bar",
		when:  func(label models.ColumnType, n, rows int) bool { return label == models.ColumnDate },
		chart: models.ChartBar,
	},
	{
		name:  "compact_category_bar",
		when:  func(label models.ColumnType, n, rows int) bool { return label == models.ColumnCategory && rows <= 8 && n <= 2 },
		chart: models.ChartBar,
	},
	{
		name:  "small_category_multi_series_radar",
		when:  func(label models.ColumnType, n, rows int) bool { return label == models.ColumnCategory && rows <= 6 && n >= 3 },
		chart: models.ChartRadar,
	},
	{
		name:  "single_series_category_doughnut",
		when:  func(label models.ColumnType, n, rows int) bool { return label == models.ColumnCategory && n == 1 && rows <= 12 },
		chart: models.ChartDoughnut,
	},
	{
		name:  "category_bar",
		when:  func(label models.ColumnType, n, rows int) bool { return label == models.ColumnCategory },
		chart: models.ChartBar,
	},
	{
		name:  "long_series_line",
		when:  func(label models.ColumnType, n, rows int) bool { return rows > 15 },
		chart: models.ChartLine,
	},
	{
		name:  "multi_series_bar",
		when:  func(label models.ColumnType, n, rows int) bool { return n >= 2 },
		chart: models.ChartBar,
	},
	{
		name:  "small_fallback_doughnut",
		when:  func(label models.ColumnType, n, rows int) bool { return rows <= 8 },
		chart: models.ChartDoughnut,
	},
	{
		name:  "fallback_bar",
		when:  func(label models.ColumnType, n, rows int) bool { return true },
		chart: models.ChartBar,
	},
}

// pickChartType selects the chart for a sheet from the ordered rule table.
func pickChartType(label models.ColumnType, numericCols, rows int) models.ChartType {
	for _, rule := range chartTypeRules {
		if rule.when(label, numericCols, rows) {
			return rule.chart
		}
	}
	return models.ChartBar
}

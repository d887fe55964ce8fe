package dashboard

import (
	"fmt"
	"sort"

	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

// secondaryCharts derives the auxiliary views of a sheet. The four rules
// are independent: each may or may not fire.
func (c *Configurator) secondaryCharts(sheet *models.SheetTable, labelType models.ColumnType, labelColumn string, labels []string, series []columnSeries) []models.ChartConfig {
	var charts []models.ChartConfig

	if chart, ok := c.distributionChart(sheet, series); ok {
		charts = append(charts, chart)
	}
	if chart, ok := c.topRowsChart(sheet, labelColumn, labels, series); ok {
		charts = append(charts, chart)
	}
	if chart, ok := c.groupedByLabelChart(sheet, labelType, labelColumn, labels, series); ok {
		charts = append(charts, chart)
	}
	if chart, ok := c.overviewChart(sheet, series); ok {
		charts = append(charts, chart)
	}

	return charts
}

// distributionChart shows per-column totals as a doughnut. Fires at >=3
// numeric columns and >=3 rows.
func (c *Configurator) distributionChart(sheet *models.SheetTable, series []columnSeries) (models.ChartConfig, bool) {
	if len(series) < 3 || sheet.RowCount() < 3 {
		return models.ChartConfig{}, false
	}

	labels := make([]string, len(series))
	totals := make([]float64, len(series))
	for i, s := range series {
		labels[i] = s.Header
		total := 0.0
		for _, v := range s.Parsed {
			total += v
		}
		totals[i] = round2(total)
	}

	return models.ChartConfig{
		SheetName:   sheet.SheetName,
		Title:       fmt.Sprintf("%s: Column Distribution", sheet.SheetName),
		ChartType:   models.ChartDoughnut,
		LabelColumn: "Column",
		DataColumns: []string{"Total"},
		Labels:      labels,
		Datasets:    []models.Dataset{{Label: "Total", Data: totals}},
		IsSecondary: true,
	}, true
}

// topRowsChart keeps the highest rows by the first numeric column. Fires
// at more than 10 rows.
func (c *Configurator) topRowsChart(sheet *models.SheetTable, labelColumn string, labels []string, series []columnSeries) (models.ChartConfig, bool) {
	if sheet.RowCount() <= 10 || len(series) == 0 {
		return models.ChartConfig{}, false
	}

	first := series[0]
	indices := make([]int, len(first.Values))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return first.Values[indices[a]] > first.Values[indices[b]]
	})

	limit := c.cfg.TopRowsLimit
	if limit <= 0 || limit > len(indices) {
		limit = len(indices)
	}
	indices = indices[:limit]

	topLabels := make([]string, len(indices))
	topValues := make([]float64, len(indices))
	for i, idx := range indices {
		if idx < len(labels) {
			topLabels[i] = labels[idx]
		}
		topValues[i] = first.Values[idx]
	}

	return models.ChartConfig{
		SheetName:   sheet.SheetName,
		Title:       fmt.Sprintf("%s: Top %d by %s", sheet.SheetName, limit, first.Header),
		ChartType:   models.ChartBar,
		LabelColumn: labelColumn,
		DataColumns: []string{first.Header},
		Labels:      topLabels,
		Datasets:    []models.Dataset{{Label: first.Header, Data: topValues}},
		IsSecondary: true,
	}, true
}

// groupedByLabelChart sums numeric columns per unique label value. Fires
// when the label is category-typed with 2-12 unique values, fewer than the
// row count. Radar at <=6 unique values, bar otherwise.
func (c *Configurator) groupedByLabelChart(sheet *models.SheetTable, labelType models.ColumnType, labelColumn string, labels []string, series []columnSeries) (models.ChartConfig, bool) {
	if labelType != models.ColumnCategory {
		return models.ChartConfig{}, false
	}

	var order []string
	seen := make(map[string]int)
	for _, label := range labels {
		if _, ok := seen[label]; !ok {
			seen[label] = len(order)
			order = append(order, label)
		}
	}
	unique := len(order)
	if unique < 2 || unique > 12 || unique >= sheet.RowCount() {
		return models.ChartConfig{}, false
	}

	grouped := series
	if len(grouped) > 4 {
		grouped = grouped[:4]
	}

	datasets := make([]models.Dataset, len(grouped))
	columns := make([]string, len(grouped))
	for i, s := range grouped {
		sums := make([]float64, unique)
		for rowIdx, v := range s.Values {
			if rowIdx < len(labels) {
				sums[seen[labels[rowIdx]]] += v
			}
		}
		for j := range sums {
			sums[j] = round2(sums[j])
		}
		datasets[i] = models.Dataset{Label: s.Header, Data: sums}
		columns[i] = s.Header
	}

	chartType := models.ChartBar
	if unique <= 6 {
		chartType = models.ChartRadar
	}

	return models.ChartConfig{
		SheetName:   sheet.SheetName,
		Title:       fmt.Sprintf("%s: Summary by %s", sheet.SheetName, labelColumn),
		ChartType:   chartType,
		LabelColumn: labelColumn,
		DataColumns: columns,
		Labels:      order,
		Datasets:    datasets,
		IsSecondary: true,
	}, true
}

// overviewChart shows per-column averages as a polar area. Fires at 3-8
// numeric columns and >=2 rows.
func (c *Configurator) overviewChart(sheet *models.SheetTable, series []columnSeries) (models.ChartConfig, bool) {
	if len(series) < 3 || len(series) > 8 || sheet.RowCount() < 2 {
		return models.ChartConfig{}, false
	}

	labels := make([]string, len(series))
	averages := make([]float64, len(series))
	for i, s := range series {
		labels[i] = s.Header
		averages[i] = round2(mean(s.Parsed))
	}

	return models.ChartConfig{
		SheetName:   sheet.SheetName,
		Title:       fmt.Sprintf("%s: Column Averages", sheet.SheetName),
		ChartType:   models.ChartPolarArea,
		LabelColumn: "Column",
		DataColumns: []string{"Average"},
		Labels:      labels,
		Datasets:    []models.Dataset{{Label: "Average", Data: averages}},
		IsSecondary: true,
	}, true
}

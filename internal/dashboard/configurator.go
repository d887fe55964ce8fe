package dashboard

import (
	"github.com/sirupsen/logrus"

	"github.com/sheetsage/sheetsage-ai-go/internal/classifier"
	"github.com/sheetsage/sheetsage-ai-go/internal/config"
	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

// Configurator turns classified sheets into renderable chart configurations
// with per-column KPIs.
type Configurator struct {
	cfg        *config.DashboardConfig
	classifier *classifier.Classifier
	logger     *logrus.Logger
}

// New creates a Configurator.
func New(cfg *config.DashboardConfig, cls *classifier.Classifier, logger *logrus.Logger) *Configurator {
	return &Configurator{cfg: cfg, classifier: cls, logger: logger}
}

// Build produces one primary chart plus up to four secondary charts per
// sheet. Sheets without a usable numeric column are dropped entirely; one
// bad sheet never blocks the others.
func (c *Configurator) Build(sheets []models.SheetTable) []models.ChartConfig {
	var charts []models.ChartConfig
	for i := range sheets {
		sheet := &sheets[i]
		sheetCharts, ok := c.buildSheet(sheet)
		if !ok {
			c.logger.WithFields(logrus.Fields{
				"sheet": sheet.SheetName,
			}).Info("Sheet dropped: no usable numeric column")
			continue
		}
		charts = append(charts, sheetCharts...)
	}
	return charts
}

func (c *Configurator) buildSheet(sheet *models.SheetTable) ([]models.ChartConfig, bool) {
	profiles := make(map[string]models.ColumnProfile, len(sheet.Headers))
	for _, header := range sheet.Headers {
		profiles[header] = c.classifier.Classify(header, sheet.Rows)
	}

	labelColumn, labelType := chooseLabelColumn(sheet.Headers, profiles)
	numericColumns := c.numericColumns(sheet, profiles, labelColumn)
	if len(numericColumns) == 0 {
		return nil, false
	}

	labels := sheet.Column(labelColumn)
	series := make([]columnSeries, len(numericColumns))
	for i, header := range numericColumns {
		series[i] = extractSeries(sheet, header)
	}

	primary := models.ChartConfig{
		SheetName:   sheet.SheetName,
		Title:       sheet.SheetName,
		ChartType:   pickChartType(labelType, len(numericColumns), sheet.RowCount()),
		LabelColumn: labelColumn,
		DataColumns: numericColumns,
		Labels:      labels,
		Datasets:    datasetsFrom(series),
		KPIs:        c.computeKPIs(series, labels),
	}

	charts := []models.ChartConfig{primary}
	charts = append(charts, c.secondaryCharts(sheet, labelType, labelColumn, labels, series)...)
	return charts, true
}

// chooseLabelColumn elects exactly one label column: prefer a date-typed
// column, then a category-typed one, then the first label-category column,
// then the first header.
func chooseLabelColumn(headers []string, profiles map[string]models.ColumnProfile) (string, models.ColumnType) {
	for _, header := range headers {
		if profiles[header].Type == models.ColumnDate {
			return header, models.ColumnDate
		}
	}
	for _, header := range headers {
		if profiles[header].Type == models.ColumnCategory {
			return header, models.ColumnCategory
		}
	}
	for _, header := range headers {
		if profiles[header].Category == models.CategoryLabel {
			return header, profiles[header].Type
		}
	}
	if len(headers) > 0 {
		return headers[0], profiles[headers[0]].Type
	}
	return "", models.ColumnMixed
}

// numericColumns lists the numeric-classified columns, running the recovery
// pass when classification found none: any non-label column where more than
// half the cells parse as numbers gets promoted.
func (c *Configurator) numericColumns(sheet *models.SheetTable, profiles map[string]models.ColumnProfile, labelColumn string) []string {
	var numeric []string
	for _, header := range sheet.Headers {
		if header == labelColumn {
			continue
		}
		if profiles[header].IsNumeric() {
			numeric = append(numeric, header)
		}
	}
	if len(numeric) > 0 {
		return numeric
	}

	// Recovery pass over non-label columns
	for _, header := range sheet.Headers {
		if header == labelColumn {
			continue
		}
		parseable := 0
		for _, row := range sheet.Rows {
			if _, ok := classifier.ParseNumeric(row[header]); ok {
				parseable++
			}
		}
		if float64(parseable) > 0.5*float64(sheet.RowCount()) {
			profiles[header] = models.ColumnProfile{
				Header:   header,
				Type:     models.ColumnNumber,
				Category: models.CategoryNumeric,
			}
			numeric = append(numeric, header)
		}
	}
	return numeric
}

// computeKPIs summarizes up to MaxKPIColumns numeric columns.
func (c *Configurator) computeKPIs(series []columnSeries, labels []string) []models.KPI {
	limit := c.cfg.MaxKPIColumns
	if limit <= 0 || limit > len(series) {
		limit = len(series)
	}
	kpis := make([]models.KPI, 0, limit)
	for _, s := range series[:limit] {
		kpis = append(kpis, computeKPI(s, labels))
	}
	return kpis
}

func datasetsFrom(series []columnSeries) []models.Dataset {
	datasets := make([]models.Dataset, len(series))
	for i, s := range series {
		datasets[i] = models.Dataset{Label: s.Header, Data: s.Values}
	}
	return datasets
}

package dashboard

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetsage/sheetsage-ai-go/internal/classifier"
	"github.com/sheetsage/sheetsage-ai-go/internal/config"
	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

func testConfigurator() *Configurator {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	cls := classifier.New(&config.ClassifierConfig{SampleSize: 20, NumericRatio: 0.7})
	return New(&config.DashboardConfig{MaxKPIColumns: 8, TopRowsLimit: 8}, cls, logger)
}

func monthlyRevenueSheet() models.SheetTable {
	return models.SheetTable{
		SheetName: "Sales",
		Headers:   []string{"Month", "Revenue"},
		Rows: []models.Row{
			{"Month": "Jan", "Revenue": "$1000"},
			{"Month": "Feb", "Revenue": "$1200"},
			{"Month": "Mar", "Revenue": "$1500"},
		},
	}
}

func TestBuild_MonthlyRevenue(t *testing.T) {
	charts := testConfigurator().Build([]models.SheetTable{monthlyRevenueSheet()})
	require.NotEmpty(t, charts)

	primary := charts[0]
	assert.False(t, primary.IsSecondary)
	assert.Equal(t, "Month", primary.LabelColumn)
	assert.Equal(t, []string{"Revenue"}, primary.DataColumns)
	assert.Equal(t, models.ChartLine, primary.ChartType)
	assert.Equal(t, []string{"Jan", "Feb", "Mar"}, primary.Labels)
	require.Len(t, primary.Datasets, len(primary.DataColumns))
	assert.Equal(t, []float64{1000, 1200, 1500}, primary.Datasets[0].Data)

	require.Len(t, primary.KPIs, 1)
	kpi := primary.KPIs[0]
	assert.InDelta(t, 3700, kpi.Total, 1e-9)
	assert.InDelta(t, 1233.33, kpi.Avg, 1e-9)
	assert.Greater(t, kpi.Trend, 0.0)
	assert.Equal(t, "Mar", kpi.PeakLabel)
}

func TestBuild_SheetWithoutNumericsIsDropped(t *testing.T) {
	sheet := models.SheetTable{
		SheetName: "Notes",
		Headers:   []string{"Author", "Comment"},
		Rows: []models.Row{
			{"Author": "ann", "Comment": "first draft ready"},
			{"Author": "bob", "Comment": "looks good to me"},
		},
	}

	charts := testConfigurator().Build([]models.SheetTable{sheet, monthlyRevenueSheet()})
	for _, chart := range charts {
		assert.NotEqual(t, "Notes", chart.SheetName)
	}
	assert.NotEmpty(t, charts)
}

func TestBuild_RecoveryPassPromotesNumericColumn(t *testing.T) {
	// "Score" is not in any vocabulary and carries one non-numeric cell in
	// a 3-row sample, keeping it below the 70% classifier bar at small n is
	// not possible, so use a column that classifies as mixed.
	sheet := models.SheetTable{
		SheetName: "Grades",
		Headers:   []string{"Student Name", "Result"},
		Rows: []models.Row{
			{"Student Name": "a", "Result": "90"},
			{"Student Name": "b", "Result": "85"},
			{"Student Name": "c", "Result": "n/a"},
			{"Student Name": "d", "Result": "70"},
			{"Student Name": "e", "Result": "bad"},
			{"Student Name": "f", "Result": "60"},
		},
	}

	charts := testConfigurator().Build([]models.SheetTable{sheet})
	require.NotEmpty(t, charts)
	assert.Equal(t, []string{"Result"}, charts[0].DataColumns)
}

func TestChooseLabelColumn_PreferenceOrder(t *testing.T) {
	profiles := map[string]models.ColumnProfile{
		"Region": {Header: "Region", Type: models.ColumnCategory, Category: models.CategoryLabel},
		"Month":  {Header: "Month", Type: models.ColumnDate, Category: models.CategoryLabel},
		"Total":  {Header: "Total", Type: models.ColumnCurrency, Category: models.CategoryNumeric},
	}

	label, labelType := chooseLabelColumn([]string{"Region", "Month", "Total"}, profiles)
	assert.Equal(t, "Month", label)
	assert.Equal(t, models.ColumnDate, labelType)

	delete(profiles, "Month")
	label, labelType = chooseLabelColumn([]string{"Region", "Total"}, profiles)
	assert.Equal(t, "Region", label)
	assert.Equal(t, models.ColumnCategory, labelType)
}

func TestComputeKPI_KnownSeries(t *testing.T) {
	series := columnSeries{
		Header:        "Units",
		Values:        []float64{10, 20, 30, 40},
		Parsed:        []float64{10, 20, 30, 40},
		ParsedIndices: []int{0, 1, 2, 3},
	}
	kpi := computeKPI(series, []string{"a", "b", "c", "d"})

	assert.InDelta(t, 100, kpi.Total, 1e-9)
	assert.InDelta(t, 25, kpi.Avg, 1e-9)
	assert.InDelta(t, 25, kpi.Median, 1e-9)
	assert.InDelta(t, 40, kpi.Max, 1e-9)
	assert.InDelta(t, 10, kpi.Min, 1e-9)
	assert.Equal(t, 4, kpi.Count)
	assert.Equal(t, "d", kpi.PeakLabel)
	// second half mean 35 vs first half mean 15
	assert.InDelta(t, 133.3, kpi.Trend, 1e-9)
	assert.InDelta(t, 300, kpi.GrowthRate, 1e-9)
}

func TestComputeKPI_EmptySeries(t *testing.T) {
	kpi := computeKPI(columnSeries{Header: "Empty"}, nil)
	assert.Equal(t, 0, kpi.Count)
	assert.Zero(t, kpi.Total)
	assert.Empty(t, kpi.PeakLabel)
}

func TestSecondary_DistributionAndOverview(t *testing.T) {
	sheet := models.SheetTable{
		SheetName: "Metrics",
		Headers:   []string{"Month", "Revenue", "Cost", "Profit"},
		Rows: []models.Row{
			{"Month": "Jan", "Revenue": "100", "Cost": "60", "Profit": "40"},
			{"Month": "Feb", "Revenue": "200", "Cost": "80", "Profit": "120"},
			{"Month": "Mar", "Revenue": "300", "Cost": "100", "Profit": "200"},
		},
	}

	charts := testConfigurator().Build([]models.SheetTable{sheet})
	require.NotEmpty(t, charts)

	var doughnut, polar *models.ChartConfig
	for i := range charts {
		if !charts[i].IsSecondary {
			continue
		}
		switch charts[i].ChartType {
		case models.ChartDoughnut:
			doughnut = &charts[i]
		case models.ChartPolarArea:
			polar = &charts[i]
		}
	}

	require.NotNil(t, doughnut, "distribution doughnut should fire at 3 numeric cols and 3 rows")
	assert.Equal(t, []string{"Revenue", "Cost", "Profit"}, doughnut.Labels)
	assert.Equal(t, []float64{600, 240, 360}, doughnut.Datasets[0].Data)

	require.NotNil(t, polar, "polar overview should fire at 3 numeric cols and >=2 rows")
	assert.Equal(t, []float64{200, 80, 120}, polar.Datasets[0].Data)
}

func TestSecondary_TopRowsFiresOverTenRows(t *testing.T) {
	rows := make([]models.Row, 12)
	for i := range rows {
		rows[i] = models.Row{
			"Product": fmt.Sprintf("p%02d", i),
			"Units":   fmt.Sprintf("%d", (i*7)%13+1),
		}
	}
	sheet := models.SheetTable{
		SheetName: "Inventory",
		Headers:   []string{"Product", "Units"},
		Rows:      rows,
	}

	charts := testConfigurator().Build([]models.SheetTable{sheet})

	var top *models.ChartConfig
	for i := range charts {
		if charts[i].IsSecondary && charts[i].ChartType == models.ChartBar {
			top = &charts[i]
			break
		}
	}
	require.NotNil(t, top)
	assert.Len(t, top.Labels, 8)
	// Descending by the first numeric column
	for i := 1; i < len(top.Datasets[0].Data); i++ {
		assert.GreaterOrEqual(t, top.Datasets[0].Data[i-1], top.Datasets[0].Data[i])
	}
}

func TestSecondary_GroupedByLabel(t *testing.T) {
	sheet := models.SheetTable{
		SheetName: "Regional",
		Headers:   []string{"Region", "Sales Total"},
		Rows: []models.Row{
			{"Region": "North", "Sales Total": "10"},
			{"Region": "South", "Sales Total": "20"},
			{"Region": "North", "Sales Total": "30"},
			{"Region": "South", "Sales Total": "40"},
			{"Region": "West", "Sales Total": "5"},
		},
	}

	charts := testConfigurator().Build([]models.SheetTable{sheet})

	var grouped *models.ChartConfig
	for i := range charts {
		if charts[i].IsSecondary && charts[i].LabelColumn == "Region" {
			grouped = &charts[i]
			break
		}
	}
	require.NotNil(t, grouped)
	// 3 unique values <= 6: radar
	assert.Equal(t, models.ChartRadar, grouped.ChartType)
	assert.Equal(t, []string{"North", "South", "West"}, grouped.Labels)
	assert.Equal(t, []float64{40, 60, 5}, grouped.Datasets[0].Data)
}

func TestBuild_DatasetCountMatchesDataColumns(t *testing.T) {
	charts := testConfigurator().Build([]models.SheetTable{monthlyRevenueSheet()})
	for _, chart := range charts {
		assert.Len(t, chart.Datasets, len(chart.DataColumns), "chart %q", chart.Title)
	}
}

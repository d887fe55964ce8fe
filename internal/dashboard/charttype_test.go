package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

func TestPickChartType(t *testing.T) {
	tests := []struct {
		name    string
		label   models.ColumnType
		numeric int
		rows    int
		want    models.ChartType
	}{
		{"single small category", models.ColumnCategory, 1, 6, models.ChartDoughnut},
		{"date two series", models.ColumnDate, 2, 100, models.ChartLine},
		{"date three series", models.ColumnDate, 3, 4, models.ChartLine},
		{"date four series", models.ColumnDate, 4, 4, models.ChartBar},
		{"compact category", models.ColumnCategory, 2, 7, models.ChartBar},
		{"small category many series", models.ColumnCategory, 3, 5, models.ChartRadar},
		{"category single series twelve rows", models.ColumnCategory, 1, 12, models.ChartDoughnut},
		{"category default", models.ColumnCategory, 5, 50, models.ChartBar},
		{"long unlabeled series", models.ColumnText, 1, 30, models.ChartLine},
		{"multi series fallback", models.ColumnText, 2, 10, models.ChartBar},
		{"small fallback", models.ColumnText, 1, 5, models.ChartDoughnut},
		{"large fallback", models.ColumnText, 1, 12, models.ChartBar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickChartType(tt.label, tt.numeric, tt.rows))
		})
	}
}

// The first matching branch must win even when later branches also match.
func TestPickChartType_PrecedenceOverlap(t *testing.T) {
	// category + 1 numeric + 6 rows matches both the doughnut and the
	// compact-bar branches; the doughnut branch is evaluated first.
	assert.Equal(t, models.ChartDoughnut, pickChartType(models.ColumnCategory, 1, 6))

	// date label wins over the long-series line branch
	assert.Equal(t, models.ChartBar, pickChartType(models.ColumnDate, 5, 100))
}

package models

// ColumnType is the inferred semantic type of a column.
type ColumnType string

const (
	ColumnDate       ColumnType = "date"
	ColumnCategory   ColumnType = "category"
	ColumnCurrency   ColumnType = "currency"
	ColumnPercentage ColumnType = "percentage"
	ColumnQuantity   ColumnType = "quantity"
	ColumnNumber     ColumnType = "number"
	ColumnText       ColumnType = "text"
	ColumnMixed      ColumnType = "mixed"
)

// ColumnRole splits column types into chart roles: labels provide the
// axis, numerics provide the datasets.
type ColumnRole string

const (
	CategoryLabel   ColumnRole = "label"
	CategoryNumeric ColumnRole = "numeric"
)

// ColumnProfile is the inferred semantics of one column.
type ColumnProfile struct {
	Header   string     `json:"header"`
	Type     ColumnType `json:"type"`
	Category ColumnRole `json:"category"`
}

// IsNumeric reports whether the column carries aggregable quantitative data.
func (p ColumnProfile) IsNumeric() bool {
	return p.Category == CategoryNumeric
}

// ChartType is a renderable chart representation.
type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartLine      ChartType = "line"
	ChartDoughnut  ChartType = "doughnut"
	ChartRadar     ChartType = "radar"
	ChartPolarArea ChartType = "polarArea"
)

// Dataset is one named series of a chart.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// KPI is the statistical summary computed per numeric column.
// Magnitudes are rounded to 2 decimals, percentages to 1.
type KPI struct {
	Label      string  `json:"label"`
	Total      float64 `json:"total"`
	Avg        float64 `json:"avg"`
	Max        float64 `json:"max"`
	Min        float64 `json:"min"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	Count      int     `json:"count"`
	Trend      float64 `json:"trend_pct"`
	GrowthRate float64 `json:"growth_rate_pct"`
	PeakLabel  string  `json:"peak_label"`
}

// ChartConfig is one renderable chart derived from a sheet. Invariant:
// len(Datasets) == len(DataColumns).
type ChartConfig struct {
	SheetName   string    `json:"sheet_name"`
	Title       string    `json:"title"`
	ChartType   ChartType `json:"chart_type"`
	LabelColumn string    `json:"label_column"`
	DataColumns []string  `json:"data_columns"`
	Labels      []string  `json:"labels"`
	Datasets    []Dataset `json:"datasets"`
	KPIs        []KPI     `json:"kpis,omitempty"`
	IsSecondary bool      `json:"is_secondary"`
}

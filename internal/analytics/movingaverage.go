package analytics

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"github.com/sheetsage/sheetsage-ai-go/internal/models"
)

// movingAverage smooths a series with a simple moving average and pads the
// warm-up with nils so the result stays aligned with the input rows.
func movingAverage(values []float64, window int) []*float64 {
	if len(values) < window {
		return nil
	}

	smaIndicator := trend.NewSmaWithPeriod[float64](window)
	smoothed := helper.ChanToSlice(smaIndicator.Compute(helper.SliceToChan(values)))

	padded := make([]*float64, len(values))
	offset := len(values) - len(smoothed)
	for i, v := range smoothed {
		value := v
		padded[offset+i] = &value
	}
	return padded
}

// movingAverages computes the window-3 series, adding window-5 when the
// column has at least five points.
func movingAverages(values []float64) models.MovingAverageSet {
	set := models.MovingAverageSet{Window3: movingAverage(values, 3)}
	if len(values) >= 5 {
		set.Window5 = movingAverage(values, 5)
	}
	return set
}

package deals

import (
	"sort"

	"github.com/tripscout/tripscout/internal/domain"
	"github.com/tripscout/tripscout/pkg/formulas"
)

// TrendDirection labels where a price series is heading
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
	TrendUnknown    TrendDirection = "unknown"
)

// Fewer points than this and no trend is reported
const minTrendPoints = 3

// First-third vs last-third changes within this band count as stable
const stableBandPercent = 5.0

// Smoothing window for the moving-average series in the report
const smoothingPeriod = 3

// TrendReport summarizes the direction of a historical price series
type TrendReport struct {
	Direction     TrendDirection `json:"direction"`
	Confidence    float64        `json:"confidence"`
	ChangePercent float64        `json:"change_percent"`
	DataPoints    int            `json:"data_points"`
	Smoothed      []float64      `json:"smoothed,omitempty"`
}

// AnalyzePriceTrends classifies a historical price series. Series
// shorter than three points produce an unknown trend with zero
// confidence.
func (a *Analyzer) AnalyzePriceTrends(history []domain.PricePoint) TrendReport {
	if len(history) < minTrendPoints {
		return TrendReport{
			Direction:  TrendUnknown,
			Confidence: 0,
			DataPoints: len(history),
		}
	}

	sorted := make([]domain.PricePoint, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	prices := make([]float64, len(sorted))
	for i, p := range sorted {
		prices[i] = p.Price
	}

	third := len(prices) / 3
	if third == 0 {
		third = 1
	}
	firstMean := formulas.Mean(prices[:third])
	lastMean := formulas.Mean(prices[len(prices)-third:])

	var changePercent float64
	if firstMean != 0 {
		changePercent = (lastMean - firstMean) / firstMean * 100
	}

	direction := TrendStable
	switch {
	case changePercent > stableBandPercent:
		direction = TrendIncreasing
	case changePercent < -stableBandPercent:
		direction = TrendDecreasing
	}

	return TrendReport{
		Direction:     direction,
		Confidence:    trendConfidence(prices),
		ChangePercent: formulas.Round2(changePercent),
		DataPoints:    len(prices),
		Smoothed:      formulas.SmoothSMA(prices, smoothingPeriod),
	}
}

// trendConfidence measures how consistently the series moves in one
// direction. A series whose consecutive differences all share a sign
// scores 0.8; otherwise the fraction of differences on the majority
// side, counted over every difference. A flat step has no sign, so it
// both breaks full consistency and dilutes the majority.
func trendConfidence(prices []float64) float64 {
	var up, down int
	for i := 1; i < len(prices); i++ {
		diff := prices[i] - prices[i-1]
		if diff > 0 {
			up++
		} else if diff < 0 {
			down++
		}
	}

	total := len(prices) - 1
	if total == 0 {
		return 0
	}
	if up == total || down == total {
		return 0.8
	}

	majority := up
	if down > majority {
		majority = down
	}
	return formulas.Round2(float64(majority) / float64(total))
}

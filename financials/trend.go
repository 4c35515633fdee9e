package financials

import (
	"strconv"
	"strings"

	"stock-dashboard/models"

	"github.com/shopspring/decimal"
)

// Direction is the trend of a value: up or down.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Color is the display color of a Direction.
type Color string

// Taiwan market convention: red is a gain, green is a loss.
const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
)

// Color returns the market color for d.
func (d Direction) Color() Color {
	if d == DirectionUp {
		return ColorRed
	}
	return ColorGreen
}

// IsUp reports whether d is DirectionUp.
func (d Direction) IsUp() bool {
	return d == DirectionUp
}

// Growth is the revenue change between the oldest and newest sample.
type Growth struct {
	Percent   decimal.Decimal `json:"percent"`
	Direction Direction       `json:"direction"`
	Label     string          `json:"label"`
}

var hundred = decimal.NewFromInt(100)

// RangeGrowth compares the first and last entries of revenue already sorted
// oldest to newest. ok is false when there are fewer than two samples or the
// oldest revenue is zero.
func RangeGrowth(sorted []models.RevenueEntry) (g Growth, ok bool) {
	if len(sorted) < 2 {
		return Growth{}, false
	}

	first := decimal.NewFromFloat(sorted[0].Revenue)
	last := decimal.NewFromFloat(sorted[len(sorted)-1].Revenue)
	if first.IsZero() {
		return Growth{}, false
	}

	pct := last.Sub(first).Div(first).Mul(hundred)

	g = Growth{Percent: pct, Direction: DirectionDown}
	if pct.Sign() >= 0 {
		g.Direction = DirectionUp
	}
	g.Label = FormatPercent(pct)
	return g, true
}

// FormatPercent renders pct with one decimal place and an explicit sign.
// Negative values that round to zero keep their sign ("-0.0%").
func FormatPercent(pct decimal.Decimal) string {
	s := pct.StringFixed(1)
	switch {
	case pct.Sign() >= 0:
		s = "+" + s
	case !strings.HasPrefix(s, "-"):
		s = "-" + s
	}
	return s + "%"
}

// ClassifyPoint classifies a signed change string such as "+1.5" or "-0.30%".
// Any minus sign means down. Otherwise the value is parsed; unparseable input
// counts as non-positive. Zero classifies as up.
func ClassifyPoint(s string) Direction {
	if strings.Contains(s, "-") {
		return DirectionDown
	}

	v, ok := parseSigned(s)
	if !ok {
		return DirectionDown
	}
	if v >= 0 {
		return DirectionUp
	}
	return DirectionDown
}

func parseSigned(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "+")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

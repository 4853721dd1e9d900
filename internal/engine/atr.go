package engine

import (
	"math"
	"strings"

	"scalpbot/internal/models"
)

// RangeTracker выводит динамический диапазон R из потока закрытых баров.
// Источник "atr" — истинный диапазон со сглаживанием Уайлдера,
// "range" — сглаженный high-low бара.
type RangeTracker struct {
	source    string
	period    int
	seen      int
	prevClose float64
	value     float64
}

func NewRangeTracker(source string, period int) *RangeTracker {
	if period < 1 {
		period = 1
	}
	return &RangeTracker{
		source: strings.ToLower(source),
		period: period,
	}
}

func (t *RangeTracker) Update(bar models.Bar) {
	if !bar.Closed {
		return
	}

	tr := bar.High - bar.Low
	if t.source == "atr" && t.prevClose > 0 {
		tr = math.Max(tr, math.Max(math.Abs(bar.High-t.prevClose), math.Abs(bar.Low-t.prevClose)))
	}

	t.seen++
	switch {
	case t.seen == 1:
		t.value = tr
	case t.seen <= t.period:
		t.value += (tr - t.value) / float64(t.seen)
	default:
		t.value = (t.value*float64(t.period-1) + tr) / float64(t.period)
	}
	t.prevClose = bar.Close
}

// Value возвращает 0, пока не накоплен полный период.
func (t *RangeTracker) Value() float64 {
	if t.seen < t.period {
		return 0
	}
	return t.value
}

package engine

import (
	"fmt"
	"math"
)

// Offsets — ценовые отступы, выведенные из диапазона R: отступ входных
// лимитов от цены закрытия и офсеты защитных стопа и тейка от цены входа.
type Offsets struct {
	Entry  float64
	Stop   float64
	Target float64
}

func CalcOffsets(r, bracketFrac, stopFrac, tpFrac, tick float64) (Offsets, error) {
	if tick <= 0 {
		return Offsets{}, fmt.Errorf("Некорректный tick size: %f", tick)
	}
	if r <= 0 {
		return Offsets{}, fmt.Errorf("Недопустимое значение диапазона R: %f", r)
	}

	return Offsets{
		Entry:  offsetFor(r*bracketFrac, tick),
		Stop:   offsetFor(r*stopFrac, tick),
		Target: offsetFor(r*tpFrac, tick),
	}, nil
}

// offsetFor округляет отступ к шагу цены и не даёт ему опуститься ниже
// одного тика.
func offsetFor(raw, tick float64) float64 {
	off := RoundToTick(raw, tick)
	if off < tick {
		off = tick
	}
	return off
}

func RoundToTick(value, tick float64) float64 {
	if tick <= 0 {
		return value
	}
	return math.Round(value/tick) * tick
}

// EntryLimits вычисляет лимитные цены входа по обе стороны от закрытия.
// Если после округления лимит покупки оказался не ниже лимита продажи,
// он сдвигается на один тик вниз; второе значение сообщает о сдвиге.
func EntryLimits(closePrice, entryOffset, tick float64) (float64, float64, bool) {
	buy := RoundToTick(closePrice-entryOffset, tick)
	sell := RoundToTick(closePrice+entryOffset, tick)

	nudged := false
	if buy >= sell {
		buy = RoundToTick(sell-tick, tick)
		nudged = true
	}
	return buy, sell, nudged
}

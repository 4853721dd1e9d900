package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scalpbot/internal/exchange"
	"scalpbot/internal/models"
)

func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04:05", strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("Некорректное время %q: %w", value, err)
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

func secondsOfDay(ts time.Time) int {
	return ts.Hour()*3600 + ts.Minute()*60 + ts.Second()
}

func (e *Engine) beforeWindow(ctx context.Context, bar models.Bar) {
	if e.state.BracketArmed {
		e.logEntry().Info("Торговое окно ещё не открыто, снятие взведённого брекета.")
		e.cancelBracketLegs(ctx)
		e.resetState(ctx)
		return
	}
	if e.oncePerBar("before_window", bar.Sequence) {
		e.logEntry().Debug("Ожидание открытия торгового окна.")
	}
}

// closeSession приводит бота в плоское состояние после окончания окна.
// Повторные вызовы на поздних барах безопасны: при пустом состоянии и
// нулевой позиции ничего не отменяется и не закрывается.
func (e *Engine) closeSession(ctx context.Context, bar models.Bar) {
	acted := false

	if e.state.BracketArmed {
		e.logEntry().Info("Торговое окно закрыто, снятие взведённого брекета.")
		e.cancelBracketLegs(ctx)
		acted = true
	}

	pos, err := e.client.GetPosition(ctx, e.cfg.Bot.Symbol)
	if err != nil {
		e.logEntry().WithError(err).Warn("Не удалось получить позицию в конце сессии, повтор на следующем тике.")
	} else if pos.Qty != 0 {
		e.logEntry().WithField("qty", pos.Qty).Info("Конец сессии, принудительное закрытие позиции.")
		e.forceFlatten(ctx)
		acted = true
	}

	if acted || e.state != (BotState{}) {
		e.resetState(ctx)
		e.logEntry().Info("Конец сессии, состояние сброшено, бот вне рынка.")
		return
	}
	if e.oncePerBar("after_window", bar.Sequence) {
		e.logEntry().Debug("Торговое окно закрыто.")
	}
}

func (e *Engine) cancelBracketLegs(ctx context.Context) {
	for _, legID := range []int64{e.state.BuyLegID, e.state.SellLegID} {
		if legID == 0 {
			continue
		}
		err := e.client.CancelOrder(ctx, e.cfg.Bot.Symbol, legID)
		if err != nil && !errors.Is(err, exchange.ErrOrderNotFound) {
			e.logEntry().WithError(err).WithField("order_id", legID).Warn("Не удалось снять ногу брекета.")
		}
	}
}

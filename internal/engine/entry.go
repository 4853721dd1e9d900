package engine

import (
	"context"
	"errors"

	"scalpbot/internal/exchange"
	"scalpbot/internal/models"
)

// pollEntry опрашивает ноги взведённого брекета. Нога покупки проверяется
// первой: если на одном тике исполнены обе, позиция считается длинной.
func (e *Engine) pollEntry(ctx context.Context, bar models.Bar) {
	if e.checkEntryLeg(ctx, e.state.BuyLegID, models.TradeLong) {
		return
	}
	if e.checkEntryLeg(ctx, e.state.SellLegID, models.TradeShort) {
		return
	}

	if e.state.BuyLegID == 0 && e.state.SellLegID == 0 {
		e.logEntry().Warn("Обе ноги брекета неактивны без исполнения, брекет сброшен.")
		e.state.BracketArmed = false
		e.saveState(ctx)
		return
	}

	if e.oncePerBar("armed_waiting", bar.Sequence) {
		e.logEntry().Trace("Брекет взведён, входа пока нет.")
	}
}

func (e *Engine) checkEntryLeg(ctx context.Context, legID int64, side models.TradeSide) bool {
	if legID == 0 {
		return false
	}

	ord, err := e.client.GetOrderByID(ctx, e.cfg.Bot.Symbol, legID)
	if err != nil {
		if errors.Is(err, exchange.ErrOrderNotFound) {
			e.logEntry().WithField("order_id", legID).Debug("Нога брекета не найдена, повтор на следующем тике.")
		} else {
			e.logEntry().WithError(err).WithField("order_id", legID).Warn("Не удалось опросить ногу брекета.")
		}
		return false
	}

	switch ord.Status {
	case models.OrderStatusFilled:
		e.enterTrade(ctx, side, legID, ord)
		return true
	case models.OrderStatusCanceled, models.OrderStatusRejected:
		e.logEntry().WithFields(map[string]interface{}{
			"order_id": legID,
			"status":   ord.Status,
		}).Warn("Нога брекета отменена или отклонена без исполнения.")
		e.invalidateLeg(ctx, legID)
	}
	return false
}

func (e *Engine) invalidateLeg(ctx context.Context, legID int64) {
	if e.state.BuyLegID == legID {
		e.state.BuyLegID = 0
	}
	if e.state.SellLegID == legID {
		e.state.SellLegID = 0
	}
	e.saveState(ctx)
}

func (e *Engine) enterTrade(ctx context.Context, side models.TradeSide, parentID int64, ord models.Order) {
	e.state.Side = side
	e.state.ActiveParentID = parentID
	e.state.BracketArmed = false
	if side == models.TradeLong {
		e.state.SellLegID = 0
	} else {
		e.state.BuyLegID = 0
	}
	e.saveState(ctx)

	e.logEntry().WithFields(map[string]interface{}{
		"order_id":   parentID,
		"side":       side.String(),
		"filled_qty": ord.FilledQty,
		"avg_price":  ord.AvgFillPrice,
	}).Info("Вход исполнен, позиция открыта под защитой стопа и тейка.")
}

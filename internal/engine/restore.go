package engine

import (
	"context"
	"strings"

	"scalpbot/internal/models"
)

// reconcile сверяет сохранённое состояние с данными брокера при старте и
// после переподключения. Позиция брокера считается истиной: по ней
// выбирается сторона, а взведённый брекет восстанавливается только если
// среди открытых ордеров найден ровно один однозначный кандидат на каждую
// ногу. Любая неоднозначность решается консервативным сбросом.
func (e *Engine) reconcile(ctx context.Context) error {
	pos, err := e.withRetryPosition(ctx)
	if err != nil {
		return err
	}

	switch {
	case pos.Qty > 0:
		e.state.Side = models.TradeLong
	case pos.Qty < 0:
		e.state.Side = models.TradeShort
	default:
		e.state.Side = models.TradeFlat
	}

	e.logEntry().WithFields(map[string]interface{}{
		"qty":  pos.Qty,
		"side": e.state.Side.String(),
	}).Debug("Сверка: позиция по данным брокера.")

	if e.state.Side != models.TradeFlat {
		if e.state.ActiveParentID == 0 {
			e.logEntry().Error("Сверка: позиция открыта, но родительский ордер неизвестен. Аварийное закрытие.")
			e.forceFlatten(ctx)
			e.resetState(ctx)
			return nil
		}
		if e.state.BracketArmed {
			e.logEntry().Warn("Сверка: позиция открыта при взведённом флаге брекета, флаг сброшен.")
			e.state.BracketArmed = false
		}
		e.state.BuyLegID = 0
		e.state.SellLegID = 0
		e.saveState(ctx)
		e.logEntry().WithFields(map[string]interface{}{
			"active_parent_id": e.state.ActiveParentID,
			"side":             e.state.Side.String(),
		}).Info("Сверка: восстановлена открытая позиция.")
		return nil
	}

	orders, err := e.withRetryOrders(ctx)
	if err != nil {
		return err
	}

	candidates := bracketCandidates(orders)
	if tagged := taggedLegs(candidates); len(tagged) == 2 {
		candidates = tagged
	}

	if len(candidates) == 2 {
		buy, sell := candidates[0], candidates[1]
		if buy.Price > sell.Price {
			buy, sell = sell, buy
		}
		e.state = BotState{BuyLegID: buy.ID, SellLegID: sell.ID, BracketArmed: true}
		e.saveState(ctx)
		e.logEntry().WithFields(map[string]interface{}{
			"buy_leg_id":  buy.ID,
			"sell_leg_id": sell.ID,
		}).Info("Сверка: найден и восстановлен взведённый брекет.")
		return nil
	}

	if len(candidates) > 0 {
		e.logEntry().WithField("count", len(candidates)).Warn("Сверка: кандидатов в ноги брекета не ровно два, консервативный сброс.")
	} else {
		e.logEntry().Debug("Сверка: взведённый брекет не найден, чистый старт.")
	}
	e.resetState(ctx)
	return nil
}

// bracketCandidates отбирает открытые родительские лимитные ордера,
// к которым прикреплены ровно два дочерних.
func bracketCandidates(orders []models.Order) []models.Order {
	children := map[int64]int{}
	for _, ord := range orders {
		if ord.ParentID != 0 {
			children[ord.ParentID]++
		}
	}

	var candidates []models.Order
	for _, ord := range orders {
		if ord.ParentID != 0 || ord.Type != models.OrderTypeLimit || ord.Status != models.OrderStatusOpen {
			continue
		}
		if children[ord.ID] == 2 {
			candidates = append(candidates, ord)
		}
	}
	return candidates
}

// taggedLegs оставляет кандидатов, помеченных нашим link id. Если ровно два
// ордера несут метку, сторонние заявки того же счёта не мешают сверке.
func taggedLegs(orders []models.Order) []models.Order {
	var tagged []models.Order
	for _, ord := range orders {
		if strings.HasPrefix(ord.LinkID, linkPrefix) {
			tagged = append(tagged, ord)
		}
	}
	return tagged
}

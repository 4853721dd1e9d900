package engine

import (
	"context"

	"scalpbot/internal/models"
)

// pollExit сканирует дочерние ордера активного родителя. Исполненный защитный
// ордер закрывает сделку; отменённый или отклонённый при открытой позиции
// требует немедленного аварийного закрытия.
func (e *Engine) pollExit(ctx context.Context, bar models.Bar) {
	if e.state.ActiveParentID == 0 {
		e.logEntry().Error("Открыта позиция без отслеживаемого родительского ордера, аварийное закрытие.")
		e.forceFlatten(ctx)
		e.resetState(ctx)
		return
	}

	orders, err := e.client.GetOrders(ctx, e.cfg.Bot.Symbol)
	if err != nil {
		e.logEntry().WithError(err).Warn("Не удалось получить список ордеров, повтор на следующем тике.")
		return
	}

	for _, ord := range orders {
		if ord.ParentID != e.state.ActiveParentID {
			continue
		}
		switch ord.Status {
		case models.OrderStatusFilled:
			label := "тейк-профит"
			if ord.Type == models.OrderTypeStop {
				label = "стоп-лосс"
			}
			e.logEntry().WithFields(map[string]interface{}{
				"order_id":   ord.ID,
				"exit":       label,
				"filled_qty": ord.FilledQty,
				"avg_price":  ord.AvgFillPrice,
			}).Info("Защитный ордер исполнен, позиция закрыта.")
			e.resetState(ctx)
			return
		case models.OrderStatusCanceled, models.OrderStatusRejected:
			e.logEntry().WithFields(map[string]interface{}{
				"order_id": ord.ID,
				"status":   ord.Status,
			}).Error("Защитный ордер неактивен при открытой позиции, аварийное закрытие.")
			e.forceFlatten(ctx)
			e.resetState(ctx)
			return
		}
	}

	if e.oncePerBar("in_trade_waiting", bar.Sequence) {
		e.logEntry().Trace("В позиции, выхода пока нет.")
	}
}

func (e *Engine) forceFlatten(ctx context.Context) {
	if err := e.client.FlattenPosition(ctx, e.cfg.Bot.Symbol); err != nil {
		e.logEntry().WithError(err).Error("Не удалось закрыть позицию принудительно.")
	}
}

package engine

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"scalpbot/internal/exchange"
	"scalpbot/internal/models"
)

const linkPrefix = "scalp-"

func (e *Engine) placeBracket(ctx context.Context, bar models.Bar, offsets Offsets) {
	buyLimit, sellLimit, nudged := EntryLimits(bar.Close, offsets.Entry, e.rules.TickSize)
	if nudged {
		e.logEntry().WithFields(map[string]interface{}{
			"buy_limit":  buyLimit,
			"sell_limit": sellLimit,
		}).Warn("Лимит покупки оказался не ниже лимита продажи, сдвиг на тик вниз.")
	}
	if buyLimit >= sellLimit {
		e.logEntry().WithFields(map[string]interface{}{
			"close":      bar.Close,
			"buy_limit":  buyLimit,
			"sell_limit": sellLimit,
		}).Error("Не удалось развести лимитные цены, постановка брекета пропущена.")
		return
	}

	req := exchange.BracketRequest{
		Symbol:       e.cfg.Bot.Symbol,
		Qty:          e.cfg.Bot.Contracts,
		BuyPrice:     buyLimit,
		SellPrice:    sellLimit,
		StopOffset:   offsets.Stop,
		TargetOffset: offsets.Target,
		LinkID:       newLinkID(),
		TickSize:     e.rules.TickSize,
	}

	e.logEntry().WithFields(map[string]interface{}{
		"buy_limit":     buyLimit,
		"sell_limit":    sellLimit,
		"stop_offset":   offsets.Stop,
		"target_offset": offsets.Target,
		"qty":           req.Qty,
		"link_id":       req.LinkID,
	}).Info("Постановка OCO брекета.")

	res, err := e.client.SubmitBracket(ctx, req)
	if err != nil {
		e.logEntry().WithError(err).Error("Не удалось поставить брекет, повтор на следующем тике.")
		e.discardBracket(ctx)
		return
	}
	if res.BuyLegID <= 0 || res.SellLegID <= 0 {
		e.logEntry().WithFields(map[string]interface{}{
			"buy_leg_id":  res.BuyLegID,
			"sell_leg_id": res.SellLegID,
		}).Error("Шлюз вернул некорректные идентификаторы ног, повтор на следующем тике.")
		e.discardBracket(ctx)
		return
	}

	e.state.BuyLegID = res.BuyLegID
	e.state.SellLegID = res.SellLegID
	e.state.BracketArmed = true
	e.saveState(ctx)

	e.logEntry().WithFields(map[string]interface{}{
		"buy_leg_id":  res.BuyLegID,
		"sell_leg_id": res.SellLegID,
	}).Info("Брекет поставлен, ожидание входа.")
}

func (e *Engine) discardBracket(ctx context.Context) {
	e.state.BuyLegID = 0
	e.state.SellLegID = 0
	e.state.BracketArmed = false
	e.saveState(ctx)
}

func newLinkID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	if len(raw) > 12 {
		raw = raw[:12]
	}
	return linkPrefix + raw
}

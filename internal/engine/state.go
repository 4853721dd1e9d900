package engine

import (
	"context"

	"scalpbot/internal/models"
)

const (
	keyBuyLeg       = "buy_leg_id"
	keySellLeg      = "sell_leg_id"
	keyActiveParent = "active_parent_id"
	keyTradeSide    = "trade_side"
	keyBracketArmed = "bracket_armed"
)

// BotState — состояние жизненного цикла брекета. Инварианты:
// BracketArmed влечёт Side == Flat; Side != Flat влечёт ActiveParentID != 0
// и BracketArmed == false.
type BotState struct {
	BuyLegID       int64
	SellLegID      int64
	ActiveParentID int64
	Side           models.TradeSide
	BracketArmed   bool
}

func (e *Engine) loadState(ctx context.Context) error {
	buyLeg, err := e.store.GetInt(ctx, keyBuyLeg)
	if err != nil {
		return err
	}
	sellLeg, err := e.store.GetInt(ctx, keySellLeg)
	if err != nil {
		return err
	}
	activeParent, err := e.store.GetInt(ctx, keyActiveParent)
	if err != nil {
		return err
	}
	side, err := e.store.GetInt(ctx, keyTradeSide)
	if err != nil {
		return err
	}
	armed, err := e.store.GetInt(ctx, keyBracketArmed)
	if err != nil {
		return err
	}

	e.state = BotState{
		BuyLegID:       buyLeg,
		SellLegID:      sellLeg,
		ActiveParentID: activeParent,
		Side:           models.TradeSide(side),
		BracketArmed:   armed != 0,
	}
	return nil
}

func (e *Engine) saveState(ctx context.Context) {
	armed := int64(0)
	if e.state.BracketArmed {
		armed = 1
	}
	err := e.store.SetAll(ctx, map[string]int64{
		keyBuyLeg:       e.state.BuyLegID,
		keySellLeg:      e.state.SellLegID,
		keyActiveParent: e.state.ActiveParentID,
		keyTradeSide:    int64(e.state.Side),
		keyBracketArmed: armed,
	})
	if err != nil {
		e.logEntry().WithError(err).Warn("Не удалось сохранить состояние, запись повторится на следующем тике.")
	}
}

func (e *Engine) resetState(ctx context.Context) {
	e.state = BotState{}
	e.saveState(ctx)
}

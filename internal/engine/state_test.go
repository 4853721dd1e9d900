package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scalpbot/internal/models"
)

func TestStateSurvivesReload(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	e.state = BotState{
		BuyLegID:       10,
		SellLegID:      11,
		ActiveParentID: 0,
		Side:           models.TradeFlat,
		BracketArmed:   true,
	}
	e.saveState(ctx)

	// Второй движок над тем же хранилищем видит то же состояние.
	fresh := New(e.cfg, e.client, e.store, e.log)
	require.NoError(t, fresh.loadState(ctx))
	assert.Equal(t, e.state, fresh.state)
}

func TestStateEmptyStoreLoadsZero(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())

	require.NoError(t, e.loadState(context.Background()))
	assert.Equal(t, BotState{}, e.state)
}

func TestResetStateClearsEverything(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	e.state = BotState{ActiveParentID: 7, Side: models.TradeShort}
	e.saveState(ctx)
	e.resetState(ctx)

	fresh := New(e.cfg, e.client, e.store, e.log)
	require.NoError(t, fresh.loadState(ctx))
	assert.Equal(t, BotState{}, fresh.state)
}

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scalpbot/internal/models"
)

func TestParseClock(t *testing.T) {
	sec, err := parseClock("08:30:00")
	require.NoError(t, err)
	assert.Equal(t, 8*3600+30*60, sec)

	sec, err = parseClock("15:00:05")
	require.NoError(t, err)
	assert.Equal(t, 15*3600+5, sec)

	_, err = parseClock("25:00:00")
	assert.Error(t, err)
	_, err = parseClock("нет")
	assert.Error(t, err)
}

func windowedEngine(t *testing.T) (*Engine, *fakeClient) {
	t.Helper()
	cfg := testConfig()
	cfg.Bot.WindowEnabled = true
	e, client := newTestEngine(t, cfg)

	var err error
	e.startSec, err = parseClock(cfg.Bot.StartTime)
	require.NoError(t, err)
	e.stopSec, err = parseClock(cfg.Bot.StopTime)
	require.NoError(t, err)
	return e, client
}

func barAt(hour, minute int, seq int64) models.Bar {
	return models.Bar{
		Symbol:    "MESU6",
		High:      101,
		Low:       99,
		Close:     100,
		Timestamp: time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC),
		Sequence:  seq,
		Closed:    true,
	}
}

func TestBeforeWindowCancelsArmedBracket(t *testing.T) {
	e, client := windowedEngine(t)
	ctx := context.Background()

	e.state = BotState{BuyLegID: 10, SellLegID: 11, BracketArmed: true}
	e.evaluateTick(ctx, barAt(8, 0, 1))

	assert.ElementsMatch(t, []int64{10, 11}, client.canceled)
	assert.Equal(t, BotState{}, e.state)
	assert.Empty(t, client.submitted)
}

func TestBeforeWindowNoBracketPlacement(t *testing.T) {
	e, client := windowedEngine(t)

	e.evaluateTick(context.Background(), barAt(7, 59, 1))

	assert.Empty(t, client.submitted)
	assert.Equal(t, BotState{}, e.state)
}

func TestSessionCloseCancelsAndFlattens(t *testing.T) {
	e, client := windowedEngine(t)
	ctx := context.Background()

	e.state = BotState{BuyLegID: 10, SellLegID: 11, BracketArmed: true}
	client.position = models.Position{Symbol: "MESU6", Qty: 2}

	e.evaluateTick(ctx, barAt(15, 0, 1))

	assert.ElementsMatch(t, []int64{10, 11}, client.canceled)
	assert.Equal(t, 1, client.flattens)
	assert.Equal(t, BotState{}, e.state)
}

func TestSessionCloseIdempotent(t *testing.T) {
	e, client := windowedEngine(t)
	ctx := context.Background()

	e.state = BotState{ActiveParentID: 10, Side: models.TradeLong}
	client.position = models.Position{Symbol: "MESU6", Qty: 2}

	e.evaluateTick(ctx, barAt(15, 0, 1))
	assert.Equal(t, 1, client.flattens)
	assert.Equal(t, BotState{}, e.state)

	// Поздние бары ничего не отменяют и не закрывают повторно.
	e.evaluateTick(ctx, barAt(15, 1, 2))
	e.evaluateTick(ctx, barAt(15, 2, 3))
	assert.Equal(t, 1, client.flattens)
	assert.Empty(t, client.canceled)
	assert.Empty(t, client.submitted)
}

func TestInsideWindowTrades(t *testing.T) {
	e, client := windowedEngine(t)

	client.submitRes.BuyLegID = 10
	client.submitRes.SellLegID = 11
	e.evaluateTick(context.Background(), barAt(9, 0, 1))

	assert.Len(t, client.submitted, 1)
	assert.True(t, e.state.BracketArmed)
}

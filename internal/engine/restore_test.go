package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scalpbot/internal/models"
)

func parentWithChildren(id int64, price float64, linkID string) []models.Order {
	return []models.Order{
		{ID: id, Type: models.OrderTypeLimit, Price: price, LinkID: linkID, Status: models.OrderStatusOpen},
		{ID: id*10 + 1, ParentID: id, Type: models.OrderTypeStop, Status: models.OrderStatusOpen},
		{ID: id*10 + 2, ParentID: id, Type: models.OrderTypeLimit, Status: models.OrderStatusOpen},
	}
}

func TestReconcileRestoresArmedBracket(t *testing.T) {
	e, client := newTestEngine(t, testConfig())

	// Порядок в списке обратный ценовому: нога покупки определяется ценой.
	client.openList = append(parentWithChildren(5, 101.0, ""), parentWithChildren(4, 99.0, "")...)

	require.NoError(t, e.reconcile(context.Background()))

	assert.True(t, e.state.BracketArmed)
	assert.EqualValues(t, 4, e.state.BuyLegID)
	assert.EqualValues(t, 5, e.state.SellLegID)
	assert.Equal(t, models.TradeFlat, e.state.Side)
}

func TestReconcilePrefersTaggedLegs(t *testing.T) {
	e, client := newTestEngine(t, testConfig())

	// Чужая заявка той же формы не мешает, если наши ноги помечены.
	client.openList = append(parentWithChildren(7, 99.0, "scalp-aaa111"), parentWithChildren(8, 101.0, "scalp-aaa111")...)
	client.openList = append(client.openList, parentWithChildren(9, 105.0, "")...)

	require.NoError(t, e.reconcile(context.Background()))

	assert.True(t, e.state.BracketArmed)
	assert.EqualValues(t, 7, e.state.BuyLegID)
	assert.EqualValues(t, 8, e.state.SellLegID)
}

func TestReconcileAmbiguousCandidatesReset(t *testing.T) {
	e, client := newTestEngine(t, testConfig())
	e.state = BotState{BuyLegID: 1, SellLegID: 2, BracketArmed: true}

	client.openList = append(parentWithChildren(5, 99.0, ""), parentWithChildren(6, 101.0, "")...)
	client.openList = append(client.openList, parentWithChildren(7, 103.0, "")...)

	require.NoError(t, e.reconcile(context.Background()))

	assert.Equal(t, BotState{}, e.state)
}

func TestReconcileSingleCandidateReset(t *testing.T) {
	e, client := newTestEngine(t, testConfig())
	e.state = BotState{BuyLegID: 1, SellLegID: 2, BracketArmed: true}

	client.openList = parentWithChildren(5, 99.0, "")

	require.NoError(t, e.reconcile(context.Background()))

	assert.Equal(t, BotState{}, e.state)
}

func TestReconcileIgnoresWrongShapes(t *testing.T) {
	e, client := newTestEngine(t, testConfig())

	client.openList = []models.Order{
		// Родитель с одним дочерним.
		{ID: 5, Type: models.OrderTypeLimit, Price: 99, Status: models.OrderStatusOpen},
		{ID: 51, ParentID: 5, Type: models.OrderTypeStop, Status: models.OrderStatusOpen},
		// Стоп верхнего уровня.
		{ID: 6, Type: models.OrderTypeStop, Price: 101, Status: models.OrderStatusOpen},
		// Исполненный родитель с двумя дочерними.
		{ID: 7, Type: models.OrderTypeLimit, Price: 100, Status: models.OrderStatusFilled},
		{ID: 71, ParentID: 7, Type: models.OrderTypeStop, Status: models.OrderStatusOpen},
		{ID: 72, ParentID: 7, Type: models.OrderTypeLimit, Status: models.OrderStatusOpen},
	}

	require.NoError(t, e.reconcile(context.Background()))

	assert.Equal(t, BotState{}, e.state)
}

func TestReconcileOpenPositionKeepsParent(t *testing.T) {
	e, client := newTestEngine(t, testConfig())

	e.state = BotState{BuyLegID: 10, ActiveParentID: 10, Side: models.TradeLong}
	client.position = models.Position{Symbol: "MESU6", Qty: 2}

	require.NoError(t, e.reconcile(context.Background()))

	assert.Equal(t, models.TradeLong, e.state.Side)
	assert.EqualValues(t, 10, e.state.ActiveParentID)
	assert.False(t, e.state.BracketArmed)
	assert.Zero(t, e.state.BuyLegID)
}

func TestReconcileCorrectsArmedWhileInPosition(t *testing.T) {
	e, client := newTestEngine(t, testConfig())

	e.state = BotState{BuyLegID: 10, SellLegID: 11, ActiveParentID: 10, BracketArmed: true}
	client.position = models.Position{Symbol: "MESU6", Qty: -1}

	require.NoError(t, e.reconcile(context.Background()))

	assert.Equal(t, models.TradeShort, e.state.Side)
	assert.False(t, e.state.BracketArmed)
	assert.EqualValues(t, 10, e.state.ActiveParentID)
}

func TestReconcilePositionWithoutParentFlattens(t *testing.T) {
	e, client := newTestEngine(t, testConfig())

	client.position = models.Position{Symbol: "MESU6", Qty: 1}

	require.NoError(t, e.reconcile(context.Background()))

	assert.Equal(t, 1, client.flattens)
	assert.Equal(t, BotState{}, e.state)
}

func TestReconcileEmptyBookCleanStart(t *testing.T) {
	e, client := newTestEngine(t, testConfig())
	_ = client

	require.NoError(t, e.reconcile(context.Background()))
	assert.Equal(t, BotState{}, e.state)
}

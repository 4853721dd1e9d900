package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scalpbot/internal/exchange"
	"scalpbot/internal/logger"
)

func testWSClient(t *testing.T) *Client {
	t.Helper()
	client, err := New("ws://example", "", "", logger.New(logger.Config{Level: "none"}))
	require.NoError(t, err)
	client.symbol = "MESU6"
	return client
}

func TestHandleKlineEmitsBar(t *testing.T) {
	client := testWSClient(t)

	msg := Message{
		Topic: "kline.MESU6",
		TS:    1767340800000,
		Data: json.RawMessage(`[{
			"symbol": "MESU6",
			"open": "100.00",
			"high": "101.50",
			"low": "99.25",
			"close": "100.75",
			"confirm": true,
			"start": 1767340740000,
			"seq": 42
		}]`),
	}

	client.handleKline(msg)

	select {
	case ev := <-client.Events():
		require.Equal(t, exchange.EventTypeBar, ev.Type)
		require.NotNil(t, ev.Bar)
		assert.Equal(t, "MESU6", ev.Bar.Symbol)
		assert.InDelta(t, 100.0, ev.Bar.Open, 1e-9)
		assert.InDelta(t, 101.5, ev.Bar.High, 1e-9)
		assert.InDelta(t, 99.25, ev.Bar.Low, 1e-9)
		assert.InDelta(t, 100.75, ev.Bar.Close, 1e-9)
		assert.EqualValues(t, 42, ev.Bar.Sequence)
		assert.True(t, ev.Bar.Closed)
	default:
		t.Fatal("событие бара не получено")
	}
}

func TestHandleKlineFallbacks(t *testing.T) {
	client := testWSClient(t)

	msg := Message{
		Topic: "kline.MESU6",
		Data: json.RawMessage(`[{
			"open": "1", "high": "2", "low": "0.5", "close": "1.5",
			"confirm": false,
			"start": 1767340740000
		}]`),
	}

	client.handleKline(msg)

	ev := <-client.Events()
	require.NotNil(t, ev.Bar)
	// Символ и последовательность подставляются из подписки и времени бара.
	assert.Equal(t, "MESU6", ev.Bar.Symbol)
	assert.EqualValues(t, 1767340740000, ev.Bar.Sequence)
	assert.EqualValues(t, 1767340740000, ev.Bar.Timestamp.UnixMilli())
	assert.False(t, ev.Bar.Closed)
}

func TestHandleKlineBadPayload(t *testing.T) {
	client := testWSClient(t)

	client.handleKline(Message{Topic: "kline.MESU6", Data: json.RawMessage(`{"не": "массив"}`)})

	select {
	case <-client.Events():
		t.Fatal("событие не должно было появиться")
	default:
	}
}

func TestNextBackoffCaps(t *testing.T) {
	client := testWSClient(t)

	backoff := client.reconnectMin
	for i := 0; i < 10; i++ {
		backoff = client.nextBackoff(backoff)
	}
	assert.Equal(t, client.reconnectMax, backoff)
}

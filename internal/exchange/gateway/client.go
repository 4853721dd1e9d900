package gateway

import (
	"context"
	"net/http"
	"time"

	"scalpbot/internal/exchange"
	"scalpbot/internal/exchange/gateway/ws"
	"scalpbot/internal/logger"
)

// Client — адаптер к торговому шлюзу: REST для ордеров и позиции,
// WS для потока баров.
type Client struct {
	baseURL string
	wsURL   string
	apiKey  string
	secret  string

	httpClient *http.Client
	wsClient   *ws.Client
	log        *logger.Logger
}

func New(baseURL, wsURL, apiKey, secret string, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		wsURL:   wsURL,
		apiKey:  apiKey,
		secret:  secret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

func (c *Client) Subscribe(ctx context.Context, symbol string) (<-chan exchange.Event, error) {
	wsClient, err := ws.New(c.wsURL, c.apiKey, c.secret, c.log)
	if err != nil {
		return nil, err
	}
	if err := wsClient.Connect(ctx); err != nil {
		return nil, err
	}
	if err := wsClient.SubscribeToTopics(ctx, symbol, []string{"kline." + symbol}); err != nil {
		return nil, err
	}
	c.wsClient = wsClient
	return wsClient.Events(), nil
}

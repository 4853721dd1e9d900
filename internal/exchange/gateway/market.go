package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"scalpbot/internal/exchange"
)

func (c *Client) GetInstrumentRules(ctx context.Context, symbol string) (exchange.InstrumentRules, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp gatewayResponse[struct {
		Symbol   string `json:"symbol"`
		TickSize string `json:"tickSize"`
		MinQty   int64  `json:"minQty"`
	}]

	if err := c.doRequest(ctx, http.MethodGet, "/v1/instrument", params, nil, false, &resp); err != nil {
		return exchange.InstrumentRules{}, err
	}

	if resp.Result.Symbol == "" {
		return exchange.InstrumentRules{}, fmt.Errorf("Инструмент не найден: %s", symbol)
	}

	tick, err := strconv.ParseFloat(resp.Result.TickSize, 64)
	if err != nil {
		return exchange.InstrumentRules{}, fmt.Errorf("Некорректное значение tickSize=%q: %w", resp.Result.TickSize, err)
	}
	if tick <= 0 {
		return exchange.InstrumentRules{}, fmt.Errorf("Не удалось определить tick size для инструмента: %s", symbol)
	}

	minQty := resp.Result.MinQty
	if minQty < 1 {
		minQty = 1
	}

	return exchange.InstrumentRules{
		TickSize: tick,
		MinQty:   minQty,
	}, nil
}

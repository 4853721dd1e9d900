package gateway

import (
	"context"
	"net/http"
	"net/url"

	"scalpbot/internal/models"
)

func (c *Client) GetPosition(ctx context.Context, symbol string) (models.Position, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp gatewayResponse[struct {
		Symbol string `json:"symbol"`
		Qty    int64  `json:"qty"`
	}]

	if err := c.doRequest(ctx, http.MethodGet, "/v1/position", params, nil, true, &resp); err != nil {
		return models.Position{}, err
	}

	return models.Position{
		Symbol: symbol,
		Qty:    resp.Result.Qty,
	}, nil
}

// FlattenPosition закрывает позицию на стороне брокера; связанные защитные
// ордера брокер снимает сам.
func (c *Client) FlattenPosition(ctx context.Context, symbol string) error {
	body := map[string]any{
		"symbol": symbol,
	}

	var resp gatewayResponse[struct{}]

	return c.doRequest(ctx, http.MethodPost, "/v1/position/flatten", nil, body, true, &resp)
}

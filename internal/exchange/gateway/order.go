package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"scalpbot/internal/exchange"
	"scalpbot/internal/models"
)

func (c *Client) SubmitBracket(ctx context.Context, req exchange.BracketRequest) (exchange.BracketResult, error) {
	body := map[string]any{
		"symbol":       req.Symbol,
		"qty":          req.Qty,
		"buyPrice":     formatWithStep(req.BuyPrice, req.TickSize),
		"sellPrice":    formatWithStep(req.SellPrice, req.TickSize),
		"stopOffset":   formatWithStep(req.StopOffset, req.TickSize),
		"targetOffset": formatWithStep(req.TargetOffset, req.TickSize),
		"linkId":       req.LinkID,
	}

	var resp gatewayResponse[struct {
		BuyOrderID  int64 `json:"buyOrderId"`
		SellOrderID int64 `json:"sellOrderId"`
	}]

	if err := c.doRequest(ctx, http.MethodPost, "/v1/order/bracket", nil, body, true, &resp); err != nil {
		return exchange.BracketResult{}, err
	}

	return exchange.BracketResult{
		BuyLegID:  resp.Result.BuyOrderID,
		SellLegID: resp.Result.SellOrderID,
	}, nil
}

func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	body := map[string]any{
		"symbol":  symbol,
		"orderId": orderID,
	}

	var resp gatewayResponse[struct{}]

	err := c.doRequest(ctx, http.MethodPost, "/v1/order/cancel", nil, body, true, &resp)
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Code == codeOrderNotFound {
		return exchange.ErrOrderNotFound
	}
	return err
}

func (c *Client) GetOrderByID(ctx context.Context, symbol string, orderID int64) (models.Order, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	var resp gatewayResponse[wireOrder]

	err := c.doRequest(ctx, http.MethodGet, "/v1/order/get", params, nil, true, &resp)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Code == codeOrderNotFound {
			return models.Order{}, exchange.ErrOrderNotFound
		}
		return models.Order{}, err
	}

	return mapOrder(symbol, resp.Result), nil
}

func (c *Client) GetOrders(ctx context.Context, symbol string) ([]models.Order, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp gatewayResponse[struct {
		List []wireOrder `json:"list"`
	}]

	if err := c.doRequest(ctx, http.MethodGet, "/v1/order/list", params, nil, true, &resp); err != nil {
		return nil, err
	}

	var orders []models.Order
	for _, item := range resp.Result.List {
		orders = append(orders, mapOrder(symbol, item))
	}
	return orders, nil
}

package gateway

import (
	"strconv"
	"time"

	"scalpbot/internal/models"
)

const codeOrderNotFound = 20001

type gatewayResponse[T any] struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Result T      `json:"result"`
	Time   int64  `json:"time"`
}

func (r *gatewayResponse[T]) status() (int, string) {
	return r.Code, r.Msg
}

type wireOrder struct {
	OrderID      int64  `json:"orderId"`
	ParentID     int64  `json:"parentId"`
	LinkID       string `json:"linkId"`
	Side         string `json:"side"`
	OrderType    string `json:"orderType"`
	Price        string `json:"price"`
	Qty          int64  `json:"qty"`
	FilledQty    int64  `json:"filledQty"`
	AvgFillPrice string `json:"avgFillPrice"`
	Status       string `json:"status"`
	UpdateTime   int64  `json:"updateTime"`
}

func mapOrder(symbol string, item wireOrder) models.Order {
	price, _ := strconv.ParseFloat(item.Price, 64)
	avg, _ := strconv.ParseFloat(item.AvgFillPrice, 64)

	return models.Order{
		ID:           item.OrderID,
		ParentID:     item.ParentID,
		LinkID:       item.LinkID,
		Symbol:       symbol,
		Side:         mapSide(item.Side),
		Type:         mapType(item.OrderType),
		Price:        price,
		Qty:          item.Qty,
		FilledQty:    item.FilledQty,
		AvgFillPrice: avg,
		Status:       mapStatus(item.Status),
		UpdateTime:   time.UnixMilli(item.UpdateTime),
	}
}

func mapSide(side string) models.OrderSide {
	if side == "Sell" {
		return models.OrderSideSell
	}
	return models.OrderSideBuy
}

func mapType(orderType string) models.OrderType {
	switch orderType {
	case "Stop", "StopLimit":
		return models.OrderTypeStop
	case "Market":
		return models.OrderTypeMarket
	default:
		return models.OrderTypeLimit
	}
}

func mapStatus(status string) models.OrderStatus {
	switch status {
	case "Filled":
		return models.OrderStatusFilled
	case "Cancelled", "Canceled", "Expired":
		return models.OrderStatusCanceled
	case "Rejected", "Error":
		return models.OrderStatusRejected
	default:
		return models.OrderStatusOpen
	}
}

package models

import "time"

type OrderSide string
type OrderType string
type OrderStatus string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"

	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeStop   OrderType = "STOP"
	OrderTypeMarket OrderType = "MARKET"

	OrderStatusOpen     OrderStatus = "OPEN"
	OrderStatusFilled   OrderStatus = "FILLED"
	OrderStatusCanceled OrderStatus = "CANCELED"
	OrderStatusRejected OrderStatus = "REJECTED"
)

// TradeSide хранится в долговременном хранилище как целое число.
type TradeSide int64

const (
	TradeFlat  TradeSide = 0
	TradeLong  TradeSide = 1
	TradeShort TradeSide = 2
)

func (s TradeSide) String() string {
	switch s {
	case TradeLong:
		return "LONG"
	case TradeShort:
		return "SHORT"
	default:
		return "FLAT"
	}
}

type Order struct {
	ID           int64       `json:"id"`
	ParentID     int64       `json:"parent_id"`
	LinkID       string      `json:"link_id"`
	Symbol       string      `json:"symbol"`
	Side         OrderSide   `json:"side"`
	Type         OrderType   `json:"type"`
	Price        float64     `json:"price"`
	Qty          int64       `json:"qty"`
	FilledQty    int64       `json:"filled_qty"`
	AvgFillPrice float64     `json:"avg_fill_price"`
	Status       OrderStatus `json:"status"`
	UpdateTime   time.Time   `json:"update_time"`
}

// Position — позиция по данным брокера, знак Qty задаёт направление.
type Position struct {
	Symbol string `json:"symbol"`
	Qty    int64  `json:"qty"`
}

type Bar struct {
	Symbol    string    `json:"symbol"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Timestamp time.Time `json:"timestamp"`
	Sequence  int64     `json:"sequence"`
	Closed    bool      `json:"closed"`
}

package exchange

import (
	"context"
	"errors"

	"scalpbot/internal/models"
)

type EventType string

const (
	EventTypeBar       EventType = "Bar"
	EventTypeReconnect EventType = "Reconnect"
)

type Event struct {
	Type EventType
	Bar  *models.Bar
}

type InstrumentRules struct {
	TickSize float64
	MinQty   int64
}

// BracketRequest описывает парный OCO-вход: два лимитных ордера по обе
// стороны от цены, каждый с прикреплёнными стопом и тейком (офсеты от цены
// входа). LinkID — клиентская метка, общая для обеих ног.
type BracketRequest struct {
	Symbol       string
	Qty          int64
	BuyPrice     float64
	SellPrice    float64
	StopOffset   float64
	TargetOffset float64
	LinkID       string
	TickSize     float64
}

type BracketResult struct {
	BuyLegID  int64
	SellLegID int64
}

var ErrOrderNotFound = errors.New("ордер не найден")

type Client interface {
	GetInstrumentRules(ctx context.Context, symbol string) (InstrumentRules, error)
	Subscribe(ctx context.Context, symbol string) (<-chan Event, error)
	SubmitBracket(ctx context.Context, req BracketRequest) (BracketResult, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) error
	FlattenPosition(ctx context.Context, symbol string) error
	// GetOrderByID возвращает ErrOrderNotFound, если брокер ордера не знает.
	GetOrderByID(ctx context.Context, symbol string, orderID int64) (models.Order, error)
	GetOrders(ctx context.Context, symbol string) ([]models.Order, error)
	GetPosition(ctx context.Context, symbol string) (models.Position, error)
}

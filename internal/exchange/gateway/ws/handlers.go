package ws

import (
	"encoding/json"
	"strconv"
	"time"

	"scalpbot/internal/exchange"
	"scalpbot/internal/models"
)

func (w *Client) handleKline(msg Message) {
	var data []struct {
		Symbol  string `json:"symbol"`
		Open    string `json:"open"`
		High    string `json:"high"`
		Low     string `json:"low"`
		Close   string `json:"close"`
		Confirm bool   `json:"confirm"`
		Start   int64  `json:"start"`
		Seq     int64  `json:"seq"`
	}

	if err := json.Unmarshal(msg.Data, &data); err != nil {
		w.logEntry().WithError(err).Warn("Не удалось разобрать kline.")
		return
	}

	for _, item := range data {
		open, _ := strconv.ParseFloat(item.Open, 64)
		high, _ := strconv.ParseFloat(item.High, 64)
		low, _ := strconv.ParseFloat(item.Low, 64)
		closePrice, _ := strconv.ParseFloat(item.Close, 64)

		symbol := item.Symbol
		if symbol == "" {
			symbol = w.symbol
		}

		seq := item.Seq
		if seq == 0 {
			if item.Start > 0 {
				seq = item.Start
			} else {
				seq = msg.TS
			}
		}

		ts := msg.TS
		if ts == 0 {
			ts = item.Start
		}

		w.logEntry().WithFields(map[string]interface{}{
			"symbol":  symbol,
			"close":   closePrice,
			"confirm": item.Confirm,
			"seq":     seq,
		}).Debug("kline")

		w.events <- exchange.Event{
			Type: exchange.EventTypeBar,
			Bar: &models.Bar{
				Symbol:    symbol,
				Open:      open,
				High:      high,
				Low:       low,
				Close:     closePrice,
				Timestamp: time.UnixMilli(ts),
				Sequence:  seq,
				Closed:    item.Confirm,
			},
		}
	}
}

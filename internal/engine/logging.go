package engine

import (
	"github.com/sirupsen/logrus"
)

func (e *Engine) logEntry() *logrus.Entry {
	entry := e.log.WithComponent("engine")
	if e.cfg != nil && e.cfg.Bot.Symbol != "" {
		entry = entry.WithField("symbol", e.cfg.Bot.Symbol)
	}
	return entry
}

// oncePerBar не даёт служебным сообщениям повторяться чаще одного раза
// за бар для каждого ключа.
func (e *Engine) oncePerBar(key string, barSeq int64) bool {
	if last, ok := e.lastLoggedBar[key]; ok && last == barSeq {
		return false
	}
	e.lastLoggedBar[key] = barSeq
	return true
}

package engine

import (
	"context"
	"errors"
	"fmt"

	"scalpbot/internal/config"
	"scalpbot/internal/exchange"
	"scalpbot/internal/logger"
	"scalpbot/internal/models"
	"scalpbot/internal/store"
)

// Engine — однопоточная машина состояний скальпинга: на каждом закрытии бара
// выполняется ровно одна ветка цикла FLAT_READY -> BRACKET_ARMED -> IN_TRADE.
// Все обращения к состоянию идут из одной горутины Start, поэтому блокировки
// не нужны.
type Engine struct {
	cfg    *config.Config
	client exchange.Client
	store  *store.Store
	log    *logger.Logger

	rules  exchange.InstrumentRules
	state  BotState
	ranges *RangeTracker

	startSec int
	stopSec  int

	lastLoggedBar map[string]int64
}

func New(cfg *config.Config, client exchange.Client, st *store.Store, log *logger.Logger) *Engine {
	return &Engine{
		cfg:           cfg,
		client:        client,
		store:         st,
		log:           log,
		ranges:        NewRangeTracker(cfg.Bot.RangeSource, cfg.Bot.RangePeriod),
		lastLoggedBar: map[string]int64{},
	}
}

func (e *Engine) Start(ctx context.Context) error {
	startSec, err := parseClock(e.cfg.Bot.StartTime)
	if err != nil {
		return err
	}
	stopSec, err := parseClock(e.cfg.Bot.StopTime)
	if err != nil {
		return err
	}
	if e.cfg.Bot.WindowEnabled && stopSec <= startSec {
		return fmt.Errorf("Окончание окна %q не позже начала %q", e.cfg.Bot.StopTime, e.cfg.Bot.StartTime)
	}
	e.startSec = startSec
	e.stopSec = stopSec

	rules, err := e.withRetryRules(ctx, e.cfg.Bot.Symbol)
	if err != nil {
		return fmt.Errorf("Не удалось получить ограничения инструмента: %w", err)
	}
	e.rules = rules
	e.logEntry().WithFields(map[string]interface{}{
		"tick_size": rules.TickSize,
		"min_qty":   rules.MinQty,
	}).Info("Получены ограничения инструмента.")

	if err := e.loadState(ctx); err != nil {
		return fmt.Errorf("Не удалось загрузить состояние: %w", err)
	}
	if err := e.reconcile(ctx); err != nil {
		return fmt.Errorf("Не удалось выполнить сверку при старте: %w", err)
	}

	events, err := e.client.Subscribe(ctx, e.cfg.Bot.Symbol)
	if err != nil {
		return fmt.Errorf("Не удалось подписаться на поток баров: %w", err)
	}
	e.logEntry().Info("Подписка на поток баров установлена, бот в работе.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return errors.New("Канал событий закрыт.")
			}
			bar, resync := e.drainEvents(events, event)
			if resync {
				e.logEntry().Info("Переподключение к потоку, повторная сверка состояния.")
				if err := e.reconcile(ctx); err != nil {
					e.logEntry().WithError(err).Warn("Сверка после переподключения не удалась, повтор на следующем событии.")
				}
			}
			if bar != nil {
				e.ranges.Update(*bar)
				if bar.Closed {
					e.evaluateTick(ctx, *bar)
				}
			}
		}
	}
}

// drainEvents выбирает самое свежее событие бара из накопившейся очереди.
// При догоне после простоя промежуточные бары пропускаются: решения
// принимаются только по последнему известному бару.
func (e *Engine) drainEvents(events <-chan exchange.Event, first exchange.Event) (*models.Bar, bool) {
	var bar *models.Bar
	resync := false

	apply := func(ev exchange.Event) {
		switch ev.Type {
		case exchange.EventTypeBar:
			if ev.Bar != nil {
				bar = ev.Bar
			}
		case exchange.EventTypeReconnect:
			resync = true
		}
	}

	apply(first)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return bar, resync
			}
			apply(ev)
		default:
			return bar, resync
		}
	}
}

// evaluateTick — один проход машины состояний на закрытии бара.
func (e *Engine) evaluateTick(ctx context.Context, bar models.Bar) {
	if !e.cfg.Bot.Enabled {
		if e.oncePerBar("disabled", bar.Sequence) {
			e.logEntry().Info("Торговля выключена настройкой bot.enabled.")
		}
		return
	}

	if e.cfg.Bot.WindowEnabled {
		sec := secondsOfDay(bar.Timestamp)
		switch {
		case sec < e.startSec:
			e.beforeWindow(ctx, bar)
			return
		case sec >= e.stopSec:
			e.closeSession(ctx, bar)
			return
		}
	}

	offsets, err := CalcOffsets(e.ranges.Value(), e.cfg.Bot.BracketFrac, e.cfg.Bot.StopFrac, e.cfg.Bot.TPFrac, e.rules.TickSize)
	if err != nil {
		if e.oncePerBar("invalid_range", bar.Sequence) {
			e.logEntry().WithError(err).Warn("Диапазон R недоступен, тик пропущен.")
		}
		return
	}

	switch {
	case e.state.Side == models.TradeFlat && !e.state.BracketArmed:
		e.placeBracket(ctx, bar, offsets)
	case e.state.Side == models.TradeFlat && e.state.BracketArmed:
		e.pollEntry(ctx, bar)
	default:
		e.pollExit(ctx, bar)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"scalpbot/internal/config"
	"scalpbot/internal/engine"
	"scalpbot/internal/exchange/gateway"
	"scalpbot/internal/logger"
	"scalpbot/internal/store"
)

func main() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка конфигурации:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Runtime.Log.Level,
		Format:     cfg.Runtime.Log.Format,
		Output:     cfg.Runtime.Log.File,
		MaxSize:    cfg.Runtime.Log.MaxSize,
		MaxBackups: cfg.Runtime.Log.MaxBackups,
		MaxAge:     cfg.Runtime.Log.MaxAge,
		Compress:   cfg.Runtime.Log.Compress,
	})

	log.WithFields(map[string]interface{}{
		"symbol":    cfg.Bot.Symbol,
		"contracts": cfg.Bot.Contracts,
	}).Info("Бот запущен.")

	st, err := store.Open(cfg.Runtime.StatePath)
	if err != nil {
		log.WithError(err).Fatal("Не удалось открыть хранилище состояния.")
	}
	defer st.Close()

	client := gateway.New(cfg.Exchange.BaseUrl, cfg.Exchange.WSUrl, cfg.Exchange.ApiKey, cfg.Exchange.Secret, log)
	eng := engine.New(cfg, client, st, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- eng.Start(ctx)
	}()

	select {
	case <-sigCh:
		log.Info("Получен сигнал остановки.")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Fatal("Движок завершился с ошибкой.")
		}
	}

	log.Info("Бот остановлен.")
}

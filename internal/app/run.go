package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout      = 5 * time.Second
	deleteWebhookTimeout = 10 * time.Second
)

// closer ресурс, который закрывается при остановке; порядок в списке важен
type closer struct {
	name  string
	close func(ctx context.Context) error
}

func (a *App) runServices(ctx context.Context, deps *Dependencies) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("starting http server", "addr", deps.HTTPServer.Addr)

		if err := deps.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	if deps.TelegramPoller != nil {
		g.Go(func() error {
			return a.runPolling(gCtx, deps)
		})
	} else {
		a.Log.Info("telegram updates mode: webhook", "webhook_url", a.Cfg.Telegram.WebhookURL)
	}

	if err := deps.JobScheduler.Start(gCtx); err != nil {
		a.Log.Error("failed to start job scheduler", "error", err)
	}

	g.Go(func() error {
		<-gCtx.Done()
		a.Log.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		for _, c := range a.closers(deps) {
			if err := c.close(shutdownCtx); err != nil {
				a.Log.Error("failed to close "+c.name, "error", err)
			}
		}

		a.Log.Info("application shutdown completed")
		return nil
	})

	if err := g.Wait(); err != nil {
		a.Log.Error("application error", "error", err)
		return err
	}
	return nil
}

// closers сначала перестаём принимать запросы, затем гасим фоновые джобы и сессии, потом внешние клиенты
func (a *App) closers(deps *Dependencies) []closer {
	list := []closer{
		{name: "http server", close: deps.HTTPServer.Shutdown},
		{name: "job scheduler", close: func(context.Context) error {
			deps.JobScheduler.Wait()
			return nil
		}},
		{name: "sessions", close: func(context.Context) error {
			deps.Sessions.Close()
			return nil
		}},
	}

	if deps.KafkaProducer != nil {
		list = append(list, closer{name: "kafka producer", close: func(context.Context) error {
			return deps.KafkaProducer.Close()
		}})
	}

	list = append(list, closer{name: "cache", close: func(context.Context) error {
		return deps.Cache.Close()
	}})

	if deps.DB != nil {
		list = append(list, closer{name: "database", close: func(context.Context) error {
			return deps.DB.Close()
		}})
	}

	return list
}

// runPolling локальный режим без публичного адреса: снимаем webhook и читаем getUpdates
func (a *App) runPolling(ctx context.Context, deps *Dependencies) error {
	deleteCtx, cancel := context.WithTimeout(ctx, deleteWebhookTimeout)
	defer cancel()

	if err := deps.TelegramClient.DeleteWebhook(deleteCtx); err != nil {
		a.Log.Warn("failed to delete webhook, continuing anyway", "error", err)
	} else {
		a.Log.Info("webhook deleted, starting polling")
	}

	return deps.TelegramPoller.Start(ctx)
}

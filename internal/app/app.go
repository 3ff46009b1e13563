// Package app wires the bot together and owns its lifecycle.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"hwbot/internal/config"
	"hwbot/internal/notify"
	"hwbot/internal/poller"
	"hwbot/internal/practicum"
	"hwbot/internal/runtime/supervisor"
	"hwbot/internal/schedule"
	kit "hwbot/internal/transport"
	"hwbot/internal/transport/telegram"
	"hwbot/pkg/logx"
)

type App struct {
	cfgMgr   *config.Manager
	logSvc   *logx.Service
	log      logx.Logger
	notifier *notify.Service
	poller   *poller.Poller

	sup *supervisor.Supervisor
}

// New builds the full object graph. It fails only on startup preconditions:
// unreadable settings file, malformed chat id, bad schedule, bad bot token.
func New(secrets config.Secrets, settingsPath string) (*App, error) {
	cfgMgr := config.NewManager(settingsPath)
	settings, err := cfgMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logSvc, log := logx.New(logx.Config{
		Level:   settings.Logging.Level,
		Console: settings.ConsoleEnabled(),
		File: logx.FileConfig{
			Enabled: settings.Logging.File.Enabled,
			Path:    settings.Logging.File.Path,
		},
	})

	chatID, err := secrets.ChatID()
	if err != nil {
		logSvc.Close()
		return nil, err
	}

	adapter, err := telegram.New(
		telegram.Config{Token: secrets.TelegramToken},
		log.With(logx.String("comp", "telegram")),
	)
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("telegram: %w", err)
	}

	notifier := notify.New(
		adapter,
		kit.ChatTarget{ChatID: chatID, ThreadID: settings.Telegram.ThreadID},
		log.With(logx.String("comp", "notify")),
	)

	client := practicum.New(
		settings.Practicum.Endpoint,
		secrets.PracticumToken,
		log.With(logx.String("comp", "practicum")),
		practicum.WithTimeout(settings.HTTPTimeout()),
	)

	spec, err := pollSpec(settings)
	if err != nil {
		logSvc.Close()
		return nil, err
	}

	p := poller.New(client, notifier, spec, log.With(logx.String("comp", "poller")))

	return &App{
		cfgMgr:   cfgMgr,
		logSvc:   logSvc,
		log:      log,
		notifier: notifier,
		poller:   p,
	}, nil
}

func pollSpec(settings config.Settings) (schedule.Spec, error) {
	raw := settings.Poll.Schedule
	if raw == "" {
		return schedule.Every(schedule.Default), nil
	}
	spec, err := schedule.Parse(raw)
	if err != nil {
		return schedule.Spec{}, fmt.Errorf("poll schedule: %w", err)
	}
	return spec, nil
}

// Start launches the settings watcher, the reload applier, the systemd
// watchdog pinger and the poll loop.
func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))))

	reloads := a.cfgMgr.Subscribe(4)

	a.sup.Go("settings.watch", a.cfgMgr.Watch)
	a.sup.Go("settings.apply", func(c context.Context) error {
		a.applyReloads(c, reloads)
		return nil
	})
	a.sup.Go("systemd.watchdog", func(c context.Context) error {
		watchdog(c)
		return nil
	})
	a.sup.GoRestart("poller", a.poller.Run, time.Second, time.Minute)

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		a.log.Warn("sd_notify failed", logx.Err(err))
	} else if sent {
		a.log.Debug("systemd readiness announced")
	}

	a.log.Info("started")
	return nil
}

// Stop cancels everything and waits until the ctx deadline.
func (a *App) Stop(ctx context.Context) error {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	if a.sup != nil {
		a.sup.Cancel()
		if err := a.sup.Wait(ctx); err != nil {
			a.log.Warn("shutdown wait", logx.Err(err))
		}
	}
	a.log.Info("stopped")
	return a.logSvc.Close()
}

// applyReloads pushes changed settings into the live services. Secrets and
// the API endpoint are fixed for the process lifetime.
func (a *App) applyReloads(ctx context.Context, reloads <-chan config.Settings) {
	for {
		select {
		case <-ctx.Done():
			return
		case settings := <-reloads:
			a.logSvc.Apply(logx.Config{
				Level:   settings.Logging.Level,
				Console: settings.ConsoleEnabled(),
				File: logx.FileConfig{
					Enabled: settings.Logging.File.Enabled,
					Path:    settings.Logging.File.Path,
				},
			})
			a.notifier.SetThreadID(settings.Telegram.ThreadID)

			spec, err := pollSpec(settings)
			if err != nil {
				a.log.Warn("settings reload kept previous schedule", logx.Err(err))
				continue
			}
			a.poller.SetSchedule(spec)
			a.log.Info("settings reloaded", logx.String("schedule", spec.String()))
		}
	}
}

// watchdog pings systemd at half the configured WatchdogSec, if any.
func watchdog(ctx context.Context) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	t := time.NewTicker(interval / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	}
}

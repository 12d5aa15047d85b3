package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"plm-connector/internal/app"
	"plm-connector/internal/cli"
	"plm-connector/internal/features/rules"
	"plm-connector/internal/features/settings"
	"plm-connector/internal/features/sync"

	"go.uber.org/fx"
)

func main() {
	var (
		syncService     sync.SyncService
		settingsService settings.SettingsService
		ruleService     rules.RuleService
	)

	container := fx.New(
		app.Core,
		fx.Populate(&syncService, &settingsService, &ruleService),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := container.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	err := cli.Execute(context.Background(), &cli.Services{
		Sync:     syncService,
		Settings: settingsService,
		Rules:    ruleService,
	}, os.Args[1:])

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	_ = container.Stop(stopCtx)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

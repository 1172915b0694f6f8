//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/daymark-app/milestone-scheduling/internal/config"
	"github.com/daymark-app/milestone-scheduling/internal/infra/notifier"
	"github.com/daymark-app/milestone-scheduling/internal/observability"
	"github.com/daymark-app/milestone-scheduling/internal/observability/logging"
)

func initNotifier(_ context.Context, cfg *config.Config) (notifier.Notifier, func() error, error) {
	gateway := notifier.NewGatewayClient(
		cfg.Notifier.GatewayURL,
		cfg.Notifier.MaxRetries,
	)

	slog.Info("notification backend initialized",
		slog.String("type", "gateway"),
		slog.String("url", cfg.Notifier.GatewayURL),
	)

	return gateway, nil, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "milestone-scheduling"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: logging.Module("milestone-scheduling"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}

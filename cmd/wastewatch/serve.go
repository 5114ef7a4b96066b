package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wastewatch/internal/identity"
	"wastewatch/internal/metrics"
	"wastewatch/internal/server"
	"wastewatch/internal/service"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx.String("env-prefix"))
	if err != nil {
		return err
	}

	logger := newLogger(config)

	st, err := openStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	deps := server.Dependencies{
		Waste:      service.NewWasteService(logger, st),
		Events:     service.NewEventService(logger, st),
		Stats:      service.NewStatsService(logger, st),
		Tips:       st,
		Subscriber: st,
		Metrics:    metrics.New(),
	}

	if config.CognitoClientID != "" {
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)
		deps.Identity = identity.NewCognito(cognitoClient, config.CognitoClientID, logger)
	}

	if jwksURL := config.JWKSURL(); jwksURL != "" {
		jwkCache, err := jwk.NewCache(ctx, httprc.NewClient())
		if err != nil {
			return fmt.Errorf("failed to initialize jwk cache: %w", err)
		}

		err = jwkCache.Register(ctx, jwksURL)
		if err != nil {
			return fmt.Errorf("failed to register jwks url with cache: %w", err)
		}

		deps.KeySet = func(ctx context.Context) (jwk.Set, error) {
			return jwkCache.Lookup(ctx, jwksURL)
		}
	}

	srv, err := server.New(config, logger, deps)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

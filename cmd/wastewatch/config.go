package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"wastewatch/internal/db"
	"wastewatch/internal/store"
	"wastewatch/internal/store/firestoredb"
	"wastewatch/internal/store/memstore"
	"wastewatch/internal/store/pgstore"
	"wastewatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

func loadConfig(prefix string) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.ServerPort == 0 {
		c.ServerPort = 5000
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	if c.SubscribePollSec == 0 {
		c.SubscribePollSec = 5
	}

	switch c.StoreBackend {
	case types.StoreBackendFirestore:
		credentials, err := loadFirebaseCredentials(c)
		if err != nil {
			return nil, err
		}
		c.FirebaseCredentials = credentials
	case types.StoreBackendPostgres:
		if c.DatabaseURL == "" {
			return nil, &types.ConfigError{Field: "DATABASE_URL", Reason: "required for the postgres store backend"}
		}
	case types.StoreBackendMemory:
	default:
		return nil, &types.ConfigError{Field: "STORE_BACKEND", Reason: fmt.Sprintf("unknown backend %q", c.StoreBackend)}
	}

	return c, nil
}

// loadFirebaseCredentials prefers the inline service account over the key
// file.
func loadFirebaseCredentials(c *types.Config) ([]byte, error) {
	if blob := strings.TrimSpace(c.FirebaseServiceAccount); blob != "" {
		return []byte(blob), nil
	}

	data, err := os.ReadFile(c.FirebaseCredentialsFile)
	if err != nil {
		return nil, &types.ConfigError{
			Field:  "FIREBASE_SERVICE_ACCOUNT",
			Reason: fmt.Sprintf("not set and %s could not be read: %v", c.FirebaseCredentialsFile, err),
		}
	}

	return data, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

func newLogger(c *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logger.WithError(err).Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// openStore connects the configured store backend.
func openStore(ctx context.Context, c *types.Config, logger *logrus.Logger) (store.Store, error) {
	switch c.StoreBackend {
	case types.StoreBackendFirestore:
		client, err := db.ConnectFirestore(ctx, c)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to firestore")
		return firestoredb.New(client, logger), nil

	case types.StoreBackendPostgres:
		pool, err := db.Connect(ctx, c)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to postgres")

		pg := pgstore.New(pool, logger, time.Duration(c.SubscribePollSec)*time.Second)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pg, nil

	case types.StoreBackendMemory:
		logger.Warn("using the in-memory store, data is lost on exit")
		return memstore.New(), nil
	}

	return nil, &types.ConfigError{Field: "STORE_BACKEND", Reason: fmt.Sprintf("unknown backend %q", c.StoreBackend)}
}

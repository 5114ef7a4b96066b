// Package server exposes the clean-up API over HTTP.
package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"wastewatch/internal/identity"
	"wastewatch/internal/metrics"
	"wastewatch/internal/service"
	"wastewatch/internal/store"
	"wastewatch/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

// KeySetFunc returns the key set access tokens are verified against.
type KeySetFunc func(ctx context.Context) (jwk.Set, error)

// Dependencies are the collaborators a Service routes requests to. Identity,
// KeySet and Metrics are optional.
type Dependencies struct {
	Waste      *service.WasteService
	Events     *service.EventService
	Stats      *service.StatsService
	Tips       store.TipStore
	Subscriber store.Subscriber

	Identity identity.Provider
	KeySet   KeySetFunc
	Metrics  *metrics.Metrics
}

type Service struct {
	logger logrus.FieldLogger
	config *types.Config

	waste      *service.WasteService
	events     *service.EventService
	stats      *service.StatsService
	tips       store.TipStore
	subscriber store.Subscriber

	identity identity.Provider
	keySet   KeySetFunc
	metrics  *metrics.Metrics
	cookie   *securecookie.SecureCookie

	server *http.Server
}

func New(config *types.Config, logger logrus.FieldLogger, deps Dependencies) (*Service, error) {
	mux := flow.New()

	hashKey, err := decodeCookieKey(config.CookieHashKey)
	if err != nil {
		return nil, &types.ConfigError{Field: "COOKIE_HASH_KEY", Reason: err.Error()}
	}
	blockKey, err := decodeCookieKey(config.CookieBlockKey)
	if err != nil {
		return nil, &types.ConfigError{Field: "COOKIE_BLOCK_KEY", Reason: err.Error()}
	}
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
		logger.Warn("COOKIE_HASH_KEY not set, sessions will not survive a restart")
	}

	s := &Service{
		logger: logger,
		config: config,

		waste:      deps.Waste,
		events:     deps.Events,
		stats:      deps.Stats,
		tips:       deps.Tips,
		subscriber: deps.Subscriber,

		identity: deps.Identity,
		keySet:   deps.KeySet,
		metrics:  deps.Metrics,
		cookie:   securecookie.New(hashKey, blockKey),
	}

	s.buildRouter(mux)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.ServerPort),
		Handler:           s.CORS(s.StripTrailingSlash(mux)),
		ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler(), http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.IdentifyUser)

		r.HandleFunc("/api/waste", s.handlePostWaste, http.MethodPost)
		r.HandleFunc("/api/events", s.handlePostEvent, http.MethodPost)
	})

	r.HandleFunc("/api/waste", s.handleGetWaste, http.MethodGet)
	r.HandleFunc("/api/events", s.handleGetEvents, http.MethodGet)

	r.HandleFunc("/api/stats", s.handleGetStats, http.MethodGet)
	r.HandleFunc("/api/tips", s.handleGetTips, http.MethodGet)
	r.HandleFunc("/api/waste-types", s.handleGetWasteTypes, http.MethodGet)
	r.HandleFunc(subscribePathPrefix+":collection", s.handleSubscribe, http.MethodGet)

	r.HandleFunc("/api/auth/signup", s.handlePostSignup, http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/api/auth/anonymous", s.handlePostAnonymous, http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handlePostLogout, http.MethodPost)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeCookieKey(v string) ([]byte, error) {
	if v == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return key, nil
}

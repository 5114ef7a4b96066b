package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"wastewatch/pkg/types"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyUser      contextKey = "user"
	contextKeyRequestID contextKey = "request_id"
)

const headerRequestID = "X-Request-ID"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(headerRequestID, requestID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)

		next.ServeHTTP(rw, r.WithContext(ctx))

		elapsed := time.Since(started)
		s.metrics.ObserveRequest(r.Method, routeLabel(r.URL.Path), rw.statusCode, elapsed)

		s.logger.WithFields(logrus.Fields{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": elapsed.Milliseconds(),
		}).Info("http request")
	})
}

// routeLabel names the route a path was served by, so parameterised routes
// share one metric series.
func routeLabel(path string) string {
	if strings.HasPrefix(path, subscribePathPrefix) {
		return subscribePathPrefix + ":collection"
	}
	return path
}

// CORS admits the configured client origin. It wraps the whole mux since
// route middleware never sees unrouted OPTIONS requests.
func (s *Service) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && origin == s.config.ClientOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Expose-Headers", headerRequestID)
		}
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IdentifyUser verifies an access token when one is presented, either as a
// bearer token or in the session cookie, and puts the verified user in the
// request context. Requests without a token pass through unchanged.
func (s *Service) IdentifyUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.keySet == nil {
			next.ServeHTTP(w, r)
			return
		}

		accessToken, found := s.accessToken(r)
		if !found {
			next.ServeHTTP(w, r)
			return
		}

		set, err := s.keySet(r.Context())
		if err != nil {
			s.logger.WithError(err).Error("failed to fetch JWKS")
			s.writeError(w, http.StatusUnauthorized, "unable to verify token")
			return
		}

		token, err := jwt.Parse(
			[]byte(accessToken),
			jwt.WithKeySet(set),
			jwt.WithValidate(true),
		)
		if err != nil {
			s.logger.WithError(err).Info("failed to parse JWT")
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		userID, ok := token.Subject()
		if !ok || userID == "" {
			s.logger.Info("no user ID in JWT subject claim")
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		// email is optional
		var email string
		_ = token.Get("email", &email)

		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"email":   email,
		}).Debug("authenticated user")

		ctx := context.WithValue(r.Context(), contextKeyUser, types.User{UID: userID, Email: email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessToken returns the bearer token, or else the token held in the
// session cookie. A cookie that no longer decodes, for instance one issued
// under a previous cookie key, counts as no session.
func (s *Service) accessToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") && token != "" {
			return strings.TrimSpace(token), true
		}
	}

	cookie, err := r.Cookie(s.config.CookieName)
	if err != nil {
		return "", false
	}

	var accessToken string
	if err := s.cookie.Decode(s.config.CookieName, cookie.Value, &accessToken); err != nil {
		s.logger.WithError(err).Info("ignoring undecodable session cookie")
		return "", false
	}

	return accessToken, true
}

// requestUser returns the user a write is attributed to. A verified token
// takes precedence over the identity named in the body.
func requestUser(ctx context.Context, body types.User) types.User {
	verified, ok := ctx.Value(contextKeyUser).(types.User)
	if !ok {
		return body
	}

	user := types.User{UID: verified.UID, Email: body.Email}
	if verified.Email != "" {
		user.Email = verified.Email
	}
	return user
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only redirect reads; a redirected POST would lose its body
		if path != "/" && strings.HasSuffix(path, "/") && r.Method == http.MethodGet {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

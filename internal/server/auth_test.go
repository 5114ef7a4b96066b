package server

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wastewatch/internal/identity"
	"wastewatch/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

type testSigner struct {
	key jwk.Key
	set jwk.Set
}

func newTestSigner(t *testing.T) *testSigner {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	key, err := jwk.Import(raw)
	if err != nil {
		t.Fatalf("failed to import key: %v", err)
	}
	_ = key.Set(jwk.KeyIDKey, "test-key")
	_ = key.Set(jwk.AlgorithmKey, jwa.RS256())

	pub, err := jwk.PublicKeyOf(key)
	if err != nil {
		t.Fatalf("failed to derive public key: %v", err)
	}
	_ = pub.Set(jwk.KeyIDKey, "test-key")
	_ = pub.Set(jwk.AlgorithmKey, jwa.RS256())

	set := jwk.NewSet()
	if err := set.AddKey(pub); err != nil {
		t.Fatalf("failed to build key set: %v", err)
	}

	return &testSigner{key: key, set: set}
}

func (ts *testSigner) keySet(ctx context.Context) (jwk.Set, error) {
	return ts.set, nil
}

func (ts *testSigner) sign(t *testing.T, subject, email string) string {
	t.Helper()

	builder := jwt.NewBuilder().
		Subject(subject).
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour))
	if email != "" {
		builder = builder.Claim("email", email)
	}

	tok, err := builder.Build()
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256(), ts.key))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return string(signed)
}

type fakeProvider struct {
	token string
	err   error
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string) (*types.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.Identity{UID: "new-user", Email: &email}, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*types.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.Identity{UID: "verified-user", Email: &email, Token: f.token, ExpiresIn: 3600}, nil
}

func (f *fakeProvider) SignInAnonymously(ctx context.Context) (*types.Identity, error) {
	return &types.Identity{UID: "anon-1", Anonymous: true}, nil
}

func TestIdentifyUserBearerToken(t *testing.T) {
	signer := newTestSigner(t)
	s, mem := newTestService(t, func(deps *Dependencies) {
		deps.KeySet = signer.keySet
	})

	req := jsonRequest(http.MethodPost, "/api/waste", `{"type":"Glass","user":{"uid":"spoofed","email":"spoof@example.com"}}`)
	req.Header.Set("Authorization", "Bearer "+signer.sign(t, "verified-user", "real@example.com"))

	rec := do(t, s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	entries, _ := mem.WasteEntries(context.Background())
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].SubmitterID != "verified-user" {
		t.Errorf("expected verified subject to win, got %s", entries[0].SubmitterID)
	}
	if entries[0].SubmitterEmail == nil || *entries[0].SubmitterEmail != "real@example.com" {
		t.Errorf("expected email claim to win, got %v", entries[0].SubmitterEmail)
	}
}

func TestIdentifyUserKeepsBodyEmailWithoutClaim(t *testing.T) {
	signer := newTestSigner(t)
	s, mem := newTestService(t, func(deps *Dependencies) {
		deps.KeySet = signer.keySet
	})

	req := jsonRequest(http.MethodPost, "/api/events", `{"title":"Park","user":{"email":"body@example.com"}}`)
	req.Header.Set("Authorization", "Bearer "+signer.sign(t, "verified-user", ""))

	rec := do(t, s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	events, _ := mem.Events(context.Background())
	if len(events) != 1 || events[0].CreatorID != "verified-user" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].CreatorEmail == nil || *events[0].CreatorEmail != "body@example.com" {
		t.Errorf("expected body email, got %v", events[0].CreatorEmail)
	}
}

func TestIdentifyUserRejectsInvalidToken(t *testing.T) {
	signer := newTestSigner(t)
	other := newTestSigner(t)
	s, mem := newTestService(t, func(deps *Dependencies) {
		deps.KeySet = signer.keySet
	})

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"foreign key", other.sign(t, "intruder", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(http.MethodPost, "/api/waste", `{"type":"Glass","user":{"uid":"u1"}}`)
			req.Header.Set("Authorization", "Bearer "+tt.token)

			rec := do(t, s, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}

	entries, _ := mem.WasteEntries(context.Background())
	if len(entries) != 0 {
		t.Errorf("expected nothing stored, got %d", len(entries))
	}
}

func TestAuthNotConfigured(t *testing.T) {
	s, _ := newTestService(t)

	for _, path := range []string{"/api/auth/signup", "/api/auth/login", "/api/auth/anonymous"} {
		rec := do(t, s, jsonRequest(http.MethodPost, path, `{}`))
		if rec.Code != http.StatusNotImplemented {
			t.Errorf("%s: expected 501, got %d", path, rec.Code)
		}
	}
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		body     string
		want     int
	}{
		{"ok", &fakeProvider{}, `{"email":"ana@example.com","password":"Sup3r$ecretPass"}`, http.StatusOK},
		{"weak password", &fakeProvider{}, `{"email":"ana@example.com","password":"short"}`, http.StatusBadRequest},
		{"bad email", &fakeProvider{}, `{"email":"nope","password":"Sup3r$ecretPass"}`, http.StatusBadRequest},
		{"exists", &fakeProvider{err: identity.ErrIdentityExists}, `{"email":"ana@example.com","password":"Sup3r$ecretPass"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestService(t, func(deps *Dependencies) {
				deps.Identity = tt.provider
			})

			rec := do(t, s, jsonRequest(http.MethodPost, "/api/auth/signup", tt.body))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	signer := newTestSigner(t)
	provider := &fakeProvider{token: signer.sign(t, "verified-user", "ana@example.com")}
	s, mem := newTestService(t, func(deps *Dependencies) {
		deps.Identity = provider
		deps.KeySet = signer.keySet
	})

	rec := do(t, s, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"pw"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" {
			session = c
		}
	}
	if session == nil || session.Value == "" || !session.HttpOnly {
		t.Fatalf("expected an http only session cookie, got %+v", session)
	}
	if session.Value == provider.token {
		t.Error("expected the cookie to hold an encoded token")
	}

	req := jsonRequest(http.MethodPost, "/api/waste", `{"type":"Glass"}`)
	req.AddCookie(session)

	rec = do(t, s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected cookie session to authorize the write, got %d", rec.Code)
	}

	entries, _ := mem.WasteEntries(context.Background())
	if len(entries) != 1 || entries[0].SubmitterID != "verified-user" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	s, _ := newTestService(t, func(deps *Dependencies) {
		deps.Identity = &fakeProvider{err: identity.ErrInvalidCredentials}
	})

	rec := do(t, s, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"wrong"}`))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no cookie on failed login")
	}
}

func TestAnonymousAndLogout(t *testing.T) {
	s, _ := newTestService(t, func(deps *Dependencies) {
		deps.Identity = &fakeProvider{}
	})

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/auth/anonymous", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var anon types.Identity
	decodeResponse(t, rec, &anon)
	if !anon.Anonymous || anon.UID == "" {
		t.Errorf("unexpected anonymous identity: %+v", anon)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expiring session cookie, got %+v", cookies)
	}
}

func TestValidateCredentials(t *testing.T) {
	errs := validateCredentials("", "")
	if errs["email"] == "" || errs["password"] == "" {
		t.Errorf("expected both fields flagged, got %v", errs)
	}

	errs = validateCredentials("ana@example.com", "Sup3r$ecretPass")
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestReadsIgnoreInvalidToken(t *testing.T) {
	signer := newTestSigner(t)
	s, _ := newTestService(t, func(deps *Dependencies) {
		deps.KeySet = signer.keySet
	})

	for _, path := range []string{"/api/waste", "/api/events"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer expired.or.garbage")

		rec := do(t, s, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestUndecodableSessionCookieFallsBackToBody(t *testing.T) {
	signer := newTestSigner(t)
	s, mem := newTestService(t, func(deps *Dependencies) {
		deps.KeySet = signer.keySet
	})

	// a cookie issued under another cookie key
	req := jsonRequest(http.MethodPost, "/api/waste", `{"type":"Glass","user":{"uid":"body-user"}}`)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "issued-before-restart"})

	rec := do(t, s, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	entries, _ := mem.WasteEntries(context.Background())
	if len(entries) != 1 || entries[0].SubmitterID != "body-user" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

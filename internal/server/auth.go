package server

import (
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"wastewatch/internal/identity"
	"wastewatch/internal/utils"

	"github.com/sirupsen/logrus"
)

type credentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type fieldErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func (s *Service) handlePostSignup(w http.ResponseWriter, r *http.Request) {
	if s.identity == nil {
		s.writeError(w, http.StatusNotImplemented, "sign up is not available")
		return
	}

	var body credentialsRequest
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.TrimSpace(body.Email)

	fieldErrs := validateCredentials(email, body.Password)
	if len(fieldErrs) > 0 {
		s.logger.WithField("field_errors", fieldErrs).Info("validation errors during sign up")
		s.writeJSON(w, http.StatusBadRequest, fieldErrorResponse{
			Error:  "Please fix the highlighted fields.",
			Fields: fieldErrs,
		})
		return
	}

	user, err := s.identity.SignUp(r.Context(), email, body.Password)
	switch {
	case errors.Is(err, identity.ErrIdentityExists):
		s.writeError(w, http.StatusConflict, "An account with this email already exists.")
		return
	case errors.Is(err, identity.ErrInvalidSignUp):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.WithError(err).Error("failed to sign up user")
		s.writeError(w, http.StatusInternalServerError, "Unable to create account right now. Please try again.")
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	if s.identity == nil {
		s.writeError(w, http.StatusNotImplemented, "login is not available")
		return
	}

	var body credentialsRequest
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.identity.SignIn(r.Context(), strings.TrimSpace(body.Email), body.Password)
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, identity.ErrNotConfirmed):
		s.writeError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		s.logger.WithError(err).Error("failed to sign in user")
		s.writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	encryptedToken, err := s.cookie.Encode(s.config.CookieName, user.Token)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	maxAge := user.ExpiresIn
	if maxAge <= 0 {
		maxAge = s.config.SessionMaxAgeSec
	}

	// Set httpOnly, secure cookie with access token
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
		Path:     "/",
	})

	s.logger.WithFields(logrus.Fields{
		"user_id": user.UID,
		"email":   utils.PtrString(user.Email),
	}).Info("user logged in")

	s.writeJSON(w, http.StatusOK, user)
}

func (s *Service) handlePostAnonymous(w http.ResponseWriter, r *http.Request) {
	if s.identity == nil {
		s.writeError(w, http.StatusNotImplemented, "anonymous sign in is not available")
		return
	}

	user, err := s.identity.SignInAnonymously(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to sign in anonymously")
		s.writeError(w, http.StatusInternalServerError, "Anonymous sign in failed")
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

var (
	hasUpperReg  = regexp.MustCompile(`[A-Z]`)
	hasLowerReg  = regexp.MustCompile(`[a-z]`)
	hasDigitReg  = regexp.MustCompile(`[0-9]`)
	hasSymbolReg = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func validateCredentials(email, password string) map[string]string {
	errs := map[string]string{}

	if email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Enter a valid email address."
	}

	hasUpper := hasUpperReg.MatchString(password)
	hasLower := hasLowerReg.MatchString(password)
	hasDigit := hasDigitReg.MatchString(password)
	hasSymbol := hasSymbolReg.MatchString(password)

	if len(password) < 12 || !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		errs["password"] = "Password must be at least 12 characters and include uppercase, lowercase, number, and symbol."
	}

	return errs
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fitflix/backend/internal/apperr"
	"github.com/fitflix/backend/internal/auth"
	"github.com/fitflix/backend/internal/logging"
)

const (
	msgRegistered = "User registered successfully!"
	msgLoggedIn   = "Logged in successfully!"
	msgBadBody    = "Invalid request body."
)

// AuthHandler implements the register and login endpoints.
type AuthHandler struct {
	Auth    AuthService
	Metrics LoginRecorder
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  int64  `json:"userId"`
}

// Register handles POST /register.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	creds, err := decodeCredentials(r)
	if err != nil {
		logging.FromContext(ctx).Warn("invalid register payload", "error", err)
		respondError(ctx, w, apperr.Validation(msgBadBody))
		return
	}

	id, err := h.Auth.Register(ctx, creds)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, registerResponse{Message: msgRegistered, UserID: id})
}

// Login handles POST /login.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	creds, err := decodeCredentials(r)
	if err != nil {
		logging.FromContext(ctx).Warn("invalid login payload", "error", err)
		respondError(ctx, w, apperr.Validation(msgBadBody))
		return
	}

	result, err := h.Auth.Login(ctx, creds)
	if err != nil {
		switch apperr.As(err).Kind {
		case apperr.KindAuth:
			h.recordLogin("invalid")
		case apperr.KindInternal:
			h.recordLogin("error")
		}
		respondError(ctx, w, err)
		return
	}

	h.recordLogin("success")
	respondJSON(ctx, w, http.StatusOK, loginResponse{Message: msgLoggedIn, Token: result.Token, UserID: result.UserID})
}

// decodeCredentials reads the JSON body. An empty body decodes to empty
// credentials so validation reports the missing fields.
func decodeCredentials(r *http.Request) (auth.Credentials, error) {
	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil && !errors.Is(err, io.EOF) {
		return auth.Credentials{}, err
	}
	return creds, nil
}

func (h AuthHandler) recordLogin(outcome string) {
	if h.Metrics != nil {
		h.Metrics.RecordLogin(outcome)
	}
}

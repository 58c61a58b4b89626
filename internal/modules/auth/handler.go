package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/printa-accounts/internal/modules/account"
)

const kindInvalidCredentials account.ErrorKind = "INVALID_CREDENTIALS"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/api/v1/auth/login", h.login)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Kind     string `json:"kind"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		account.RespondError(w, http.StatusBadRequest, account.KindInvalidInput, "malformed request body")
		return
	}

	kind, ok := parseKind(req.Kind)
	if !ok {
		account.RespondError(w, http.StatusBadRequest, account.KindInvalidInput, "kind must be user or business")
		return
	}

	token, err := h.service.Login(r.Context(), kind, req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		account.RespondError(w, http.StatusUnauthorized, kindInvalidCredentials, err.Error())
		return
	}
	if err != nil {
		account.RespondServiceError(w, err)
		return
	}

	account.Respond(w, http.StatusOK, map[string]string{"token": token})
}

func parseKind(s string) (account.Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user":
		return account.KindUser, true
	case "business":
		return account.KindBusiness, true
	default:
		return "", false
	}
}

package account

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes account registration HTTP endpoints.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/users/register", h.createUser)         // POST /api/v1/users/register
		r.Post("/businesses/register", h.createBusiness) // POST /api/v1/businesses/register
		r.Get("/accounts/{id}", h.getAccount)           // GET  /api/v1/accounts/{id}
	})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, KindInvalidInput, "malformed request body")
		return
	}

	result, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		RespondServiceError(w, err)
		return
	}
	Respond(w, http.StatusCreated, result)
}

func (h *Handler) createBusiness(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, KindInvalidInput, "malformed request body")
		return
	}

	result, err := h.service.CreateBusiness(r.Context(), req)
	if err != nil {
		RespondServiceError(w, err)
		return
	}
	Respond(w, http.StatusCreated, result)
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.service.GetAccount(r.Context(), id)
	if err != nil {
		RespondServiceError(w, err)
		return
	}
	Respond(w, http.StatusOK, result)
}

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// RespondError writes a JSON error carrying a machine-readable kind.
func RespondError(w http.ResponseWriter, status int, kind ErrorKind, msg string) {
	Respond(w, status, map[string]string{"error": msg, "kind": string(kind)})
}

// RespondServiceError maps a service error onto its HTTP status.
func RespondServiceError(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	msg := err.Error()

	status := http.StatusInternalServerError
	switch kind {
	case KindInvalidInput:
		status = http.StatusBadRequest
	case KindDuplicateAccount:
		status = http.StatusConflict
	case KindStorageUnavailable:
		status = http.StatusServiceUnavailable
		msg = ErrStorageUnavailable.Error()
	case KindNotFound:
		status = http.StatusNotFound
	default:
		msg = "internal error"
	}
	RespondError(w, status, kind, msg)
}

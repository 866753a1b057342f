package table

import (
	"encoding/json"
	"net/http"

	"github.com/shababeek/pos/internal/apperr"
	"github.com/shababeek/pos/internal/auth"
	"github.com/shababeek/pos/internal/query"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux, g *auth.Guard) {
	mux.Handle("POST /tables", g.Require(auth.Admin)(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /tables", g.Require(auth.Admin)(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /tables/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleGet)))
	mux.Handle("PATCH /tables/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /tables/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleDelete)))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), apperr.New(apperr.Client, "The information you've entered is invalid."))
		return
	}

	t, err := h.service.Create(r.Context(), input)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	p := query.Parse(r.URL.Query())

	tables, err := h.service.List(r.Context(), p)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, query.ProjectSlice(tables, p.Fields))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, query.Project(t, query.Parse(r.URL.Query()).Fields))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), apperr.New(apperr.Client, "The information you've entered is invalid."))
		return
	}

	t, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, t)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

package order

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
	mux.Handle("POST /orders", g.Require(auth.Admin)(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /orders", g.Require(auth.Admin)(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /orders/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleGet)))
	mux.Handle("PATCH /orders/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /orders/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleDelete)))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), apperr.New(apperr.Client, "The information you've entered is invalid."))
		return
	}

	o, err := h.service.Create(r.Context(), input)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	opts := ListOptions{
		ListParams: query.Parse(r.URL.Query()),
		Category:   r.URL.Query().Get("category"),
		Admin:      r.URL.Query().Get("admin"),
	}

	orders, err := h.service.List(r.Context(), opts)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, query.ProjectSlice(orders, opts.Fields))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, query.Project(o, query.Parse(r.URL.Query()).Fields))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), apperr.New(apperr.Client, "The information you've entered is invalid."))
		return
	}

	o, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, o)
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

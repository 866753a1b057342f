package category

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
	mux.Handle("POST /categories", g.Require(auth.Admin)(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /categories", g.Require(auth.Admin)(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /categories/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleGet)))
	mux.Handle("PATCH /categories/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /categories/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleDelete)))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), apperr.New(apperr.Client, "The information you've entered is invalid."))
		return
	}

	c, err := h.service.Create(r.Context(), input)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	opts := ListOptions{
		ListParams: query.Parse(r.URL.Query()),
		IsActive:   parseActiveFilter(r.URL.Query().Get("isActive")),
	}

	categories, err := h.service.List(r.Context(), opts)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, query.ProjectSlice(categories, opts.Fields))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, query.Project(c, query.Parse(r.URL.Query()).Fields))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), apperr.New(apperr.Client, "The information you've entered is invalid."))
		return
	}

	c, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}

// parseActiveFilter mirrors the query contract: only the literal strings
// "true" and "false" filter, anything else is ignored.
func parseActiveFilter(raw string) *bool {
	switch raw {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

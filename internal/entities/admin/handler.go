package admin

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

// RegisterRoutes mounts the admin routes. Registration admits guests so a
// caller without a session can create the first account; everything else is
// admin-only.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, g *auth.Guard) {
	mux.Handle("POST /admins", g.Require(auth.Admin, auth.Guest)(http.HandlerFunc(h.handleCreate)))
	mux.Handle("POST /admins/login", g.Require(auth.Guest)(http.HandlerFunc(h.handleLogin)))
	mux.Handle("POST /admins/logout", g.Require(auth.Admin)(http.HandlerFunc(h.handleLogout)))
	mux.Handle("POST /admins/logout-all", g.Require(auth.Admin)(http.HandlerFunc(h.handleLogoutAll)))

	mux.Handle("GET /admins", g.Require(auth.Admin)(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /admins/me", g.Require(auth.Admin)(http.HandlerFunc(h.handleGetMe)))
	mux.Handle("GET /admins/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleGet)))
	mux.Handle("PATCH /admins/me", g.Require(auth.Admin)(http.HandlerFunc(h.handleUpdateMe)))
	mux.Handle("PATCH /admins/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /admins/me", g.Require(auth.Admin)(http.HandlerFunc(h.handleDeleteMe)))
	mux.Handle("DELETE /admins/{id}", g.Require(auth.Admin)(http.HandlerFunc(h.handleDelete)))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), apperr.New(apperr.Client, "The information you've entered is invalid."))
		return
	}

	a, token, err := h.service.Register(r.Context(), input)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"admin": a, "token": token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apperr.Respond(w, "", apperr.New(apperr.Client, "The information you've entered is invalid."))
		return
	}

	a, token, err := h.service.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		apperr.Respond(w, "", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"admin": a, "token": token})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	if err := h.service.Logout(r.Context(), identity.ID, auth.TokenFrom(r.Context())); err != nil {
		apperr.Respond(w, identity.ID, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}

func (h *Handler) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	if err := h.service.LogoutAll(r.Context(), identity.ID); err != nil {
		apperr.Respond(w, identity.ID, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	p := query.Parse(r.URL.Query())

	admins, err := h.service.List(r.Context(), p)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, query.ProjectSlice(admins, p.Fields))
}

func (h *Handler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	a, err := h.service.Get(r.Context(), identity.ID)
	if err != nil {
		apperr.Respond(w, identity.ID, err)
		return
	}

	respondJSON(w, http.StatusOK, query.Project(a, query.Parse(r.URL.Query()).Fields))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, query.Project(a, query.Parse(r.URL.Query()).Fields))
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, auth.IdentityFrom(r.Context()).ID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, r.PathValue("id"))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id string) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), apperr.New(apperr.Client, "The information you've entered is invalid."))
		return
	}

	a, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		apperr.Respond(w, auth.UserID(r.Context()), err)
		return
	}

	respondJSON(w, http.StatusOK, a)
}

func (h *Handler) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, auth.IdentityFrom(r.Context()).ID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, r.PathValue("id"))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Delete(r.Context(), id); err != nil {
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

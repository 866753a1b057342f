package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shababeek/pos/internal/access"
	"github.com/shababeek/pos/internal/apperr"
)

// fakeResolver resolves tokens from a fixed identity/token pair, standing in
// for the admin repository's live token set.
type fakeResolver struct {
	identity *Identity
	token    string
}

func (f *fakeResolver) ResolveToken(_ context.Context, identityID, token string) (*Identity, error) {
	if f.identity != nil && f.identity.ID == identityID && f.token == token {
		return f.identity, nil
	}
	return nil, apperr.NewAuthorization()
}

func newGuardFixture(t *testing.T) (*Guard, *Tokens, *fakeResolver, string) {
	t.Helper()

	tokens := NewTokens("test-secret", time.Hour)
	raw, err := tokens.Issue("admin-1")
	require.NoError(t, err)

	resolver := &fakeResolver{
		identity: &Identity{ID: "admin-1", Role: access.RoleSuperAdmin},
		token:    raw,
	}

	return NewGuard(tokens, resolver), tokens, resolver, raw
}

func echoIdentity(t *testing.T, got **Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardAdmitsValidToken(t *testing.T) {
	g, _, _, raw := newGuardFixture(t)

	var got *Identity
	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()

	g.Require(Admin)(echoIdentity(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "admin-1", got.ID)
}

func TestGuardRejectsMissingHeader(t *testing.T) {
	g, _, _, _ := newGuardFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	rec := httptest.NewRecorder()

	g.Require(Admin)(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "You aren't authorized to perform this action.")
}

func TestGuardRejectsRevokedToken(t *testing.T) {
	g, tokens, resolver, _ := newGuardFixture(t)

	// A second token for the same identity that the resolver no longer
	// holds, as if the session had been logged out.
	revoked, err := tokens.Issue("admin-1")
	require.NoError(t, err)
	require.NotEqual(t, resolver.token, revoked)

	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	req.Header.Set("Authorization", "Bearer "+revoked)
	rec := httptest.NewRecorder()

	g.Require(Admin)(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardRejectsMalformedHeader(t *testing.T) {
	g, _, _, raw := newGuardFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	req.Header.Set("Authorization", raw) // no Bearer prefix
	rec := httptest.NewRecorder()

	g.Require(Admin)(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardGuestSelector(t *testing.T) {
	g, _, _, _ := newGuardFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/admins/login?userType=guest", nil)
	rec := httptest.NewRecorder()

	var got *Identity
	g.Require(Guest)(echoIdentity(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got)
}

func TestGuardGuestSelectorDeniedOnAdminOnlyRoute(t *testing.T) {
	g, _, _, _ := newGuardFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/tables?userType=guest", nil)
	rec := httptest.NewRecorder()

	g.Require(Admin)(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardRegistrationDowngrade(t *testing.T) {
	g, _, _, _ := newGuardFixture(t)

	// No Authorization header on a route that also admits guests: the
	// request passes through unauthenticated so self-registration works.
	req := httptest.NewRequest(http.MethodPost, "/admins", nil)
	rec := httptest.NewRecorder()

	var got *Identity
	g.Require(Admin, Guest)(echoIdentity(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got)
}

func TestGuardDowngradeStillVerifiesPresentedToken(t *testing.T) {
	g, _, _, _ := newGuardFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/admins", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	g.Require(Admin, Guest)(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

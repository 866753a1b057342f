package admin

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shababeek/pos/internal/access"
	"github.com/shababeek/pos/internal/apperr"
	"github.com/shababeek/pos/internal/auth"
	"github.com/shababeek/pos/internal/query"
)

// fakeRepository keeps admins in memory so service behavior tests don't need
// a database.
type fakeRepository struct {
	admins map[string]*Admin
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{admins: map[string]*Admin{}}
}

func (f *fakeRepository) Create(_ context.Context, a *Admin) error {
	for _, existing := range f.admins {
		if existing.Email == a.Email {
			return apperr.NewDuplicate("email")
		}
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	f.admins[a.ID] = a
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*Admin, error) {
	if a, ok := f.admins[id]; ok {
		return a, nil
	}
	return nil, apperr.New(apperr.NotFound, notFoundMessage)
}

func (f *fakeRepository) GetByEmail(_ context.Context, email string) (*Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, notFoundMessage)
}

func (f *fakeRepository) GetByIDAndToken(_ context.Context, id, token string) (*Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, notFoundMessage)
	}
	for _, t := range a.Tokens {
		if t == token {
			return a, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, notFoundMessage)
}

func (f *fakeRepository) List(_ context.Context, _ query.ListParams) ([]*Admin, error) {
	out := []*Admin{}
	for _, a := range f.admins {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepository) Update(_ context.Context, a *Admin) error {
	if _, ok := f.admins[a.ID]; !ok {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}
	f.admins[a.ID] = a
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.admins[id]; !ok {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}
	delete(f.admins, id)
	return nil
}

func (f *fakeRepository) AddToken(_ context.Context, id, token string) error {
	a, ok := f.admins[id]
	if !ok {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}
	a.Tokens = append(a.Tokens, token)
	return nil
}

func (f *fakeRepository) RemoveToken(_ context.Context, id, token string) error {
	a, ok := f.admins[id]
	if !ok {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}
	kept := a.Tokens[:0]
	for _, t := range a.Tokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	a.Tokens = kept
	return nil
}

func (f *fakeRepository) ClearTokens(_ context.Context, id string) error {
	a, ok := f.admins[id]
	if !ok {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}
	a.Tokens = nil
	return nil
}

func newServiceFixture() (Service, *fakeRepository) {
	repo := newFakeRepository()
	return NewService(repo, auth.NewTokens("test-secret", time.Hour)), repo
}

func validInput() Input {
	return Input{
		FirstName:   "Sherif",
		LastName:    "Hassan",
		PhoneNumber: "+201001234567",
		Email:       "sherif@shababeek.com",
		Password:    "long-enough",
	}
}

func asIdentity(a *Admin) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{ID: a.ID, Role: a.Role}, "")
}

func TestRegister(t *testing.T) {
	svc, repo := newServiceFixture()

	a, token, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, access.RoleCashier, a.Role, "role defaults to the least privileged")
	assert.NotEqual(t, "long-enough", a.PasswordHash)

	stored := repo.admins[a.ID]
	require.NotNil(t, stored)
	assert.Contains(t, stored.Tokens, token, "registration logs the account straight in")
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newServiceFixture()

	_, _, err := svc.Register(context.Background(), Input{
		Email:    "not-an-email",
		Password: "short",
		Role:     "Janitor",
	})
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.Validation, e.Kind)
	assert.Equal(t, "First name can't be blank.", e.Fields["firstName"])
	assert.Equal(t, "Last name can't be blank.", e.Fields["lastName"])
	assert.Equal(t, "Phone number can't be blank.", e.Fields["phoneNumber"])
	assert.Equal(t, "The email address you've entered is invalid.", e.Fields["email"])
	assert.Equal(t, "Your password must be at least 8 characters long.", e.Fields["password"])
	assert.Equal(t, "The role you've chosen is invalid.", e.Fields["role"])
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _ := newServiceFixture()

	input := validInput()
	input.Email = "  Sherif@Shababeek.COM "

	a, _, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "sherif@shababeek.com", a.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newServiceFixture()

	_, _, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, apperr.Duplicate, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	svc, _ := newServiceFixture()

	registered, firstToken, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	a, secondToken, err := svc.Login(context.Background(), "sherif@shababeek.com", "long-enough")
	require.NoError(t, err)

	assert.Equal(t, registered.ID, a.ID)
	assert.NotEqual(t, firstToken, secondToken)
	assert.Len(t, a.Tokens, 2, "each login is its own session")
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newServiceFixture()

	_, _, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	const want = "We couldn't find an account with that email and password combination."

	_, _, err = svc.Login(context.Background(), "sherif@shababeek.com", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, want, err.Error())

	_, _, err = svc.Login(context.Background(), "nobody@shababeek.com", "long-enough")
	require.Error(t, err)
	assert.Equal(t, want, err.Error(), "unknown email reads the same as a wrong password")
}

func TestLogoutRevokesOneSession(t *testing.T) {
	svc, repo := newServiceFixture()

	a, first, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	_, second, err := svc.Login(context.Background(), a.Email, "long-enough")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), a.ID, first))

	stored := repo.admins[a.ID]
	assert.NotContains(t, stored.Tokens, first)
	assert.Contains(t, stored.Tokens, second)
}

func TestLogoutAll(t *testing.T) {
	svc, repo := newServiceFixture()

	a, _, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	_, _, err = svc.Login(context.Background(), a.Email, "long-enough")
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(context.Background(), a.ID))
	assert.Empty(t, repo.admins[a.ID].Tokens)
}

func TestUpdateWhitelist(t *testing.T) {
	svc, _ := newServiceFixture()

	a, _, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Update(asIdentity(a), a.ID, map[string]json.RawMessage{
		"email": json.RawMessage(`"new@shababeek.com"`),
		"role":  json.RawMessage(`"Super Admin"`),
	})
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.Validation, e.Kind)
	assert.Equal(t, "Email cannot be modified.", e.Fields["email"])
	assert.Equal(t, "Role cannot be modified.", e.Fields["role"])
}

func TestUpdateSelf(t *testing.T) {
	svc, _ := newServiceFixture()

	a, _, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	hashBefore := a.PasswordHash

	updated, err := svc.Update(asIdentity(a), a.ID, map[string]json.RawMessage{
		"firstName": json.RawMessage(`"Adel"`),
		"password":  json.RawMessage(`"another-password"`),
	})
	require.NoError(t, err)

	assert.Equal(t, "Adel", updated.FirstName)
	assert.NotEqual(t, hashBefore, updated.PasswordHash)
	assert.True(t, updated.CheckPassword("another-password"))
}

func TestUpdateRequiresIdentity(t *testing.T) {
	svc, _ := newServiceFixture()

	a, _, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), a.ID, map[string]json.RawMessage{
		"firstName": json.RawMessage(`"Adel"`),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))
}

func TestUpdateShortPassword(t *testing.T) {
	svc, _ := newServiceFixture()

	a, _, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Update(asIdentity(a), a.ID, map[string]json.RawMessage{
		"password": json.RawMessage(`"short"`),
	})
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Your password must be at least 8 characters long.", e.Fields["password"])
}

func TestDeleteSelf(t *testing.T) {
	svc, repo := newServiceFixture()

	a, _, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(asIdentity(a), a.ID))
	assert.Empty(t, repo.admins)
}

package admin

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shababeek/pos/internal/access"
	"github.com/shababeek/pos/internal/apperr"
	"github.com/shababeek/pos/internal/auth"
	"github.com/shababeek/pos/internal/query"
)

// allowedUpdates is the PATCH whitelist. Role is deliberately absent: no
// caller can change a role through the API.
var allowedUpdates = []string{"firstName", "lastName", "phoneNumber", "password"}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service interface {
	Register(ctx context.Context, input Input) (*Admin, string, error)
	Login(ctx context.Context, email, password string) (*Admin, string, error)
	Logout(ctx context.Context, id, token string) error
	LogoutAll(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Admin, error)
	List(ctx context.Context, p query.ListParams) ([]*Admin, error)
	Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*Admin, error)
	Delete(ctx context.Context, id string) error
}

// Input is the registration request shape.
type Input struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

type adminService struct {
	repo   Repository
	tokens *auth.Tokens
}

func NewService(repo Repository, tokens *auth.Tokens) Service {
	return &adminService{repo: repo, tokens: tokens}
}

// Register creates the account and logs it straight in, returning the fresh
// session token alongside the record.
func (s *adminService) Register(ctx context.Context, input Input) (*Admin, string, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Role == "" {
		// The registration form doesn't have to pick a role; new accounts
		// start at the least privileged one.
		input.Role = string(access.RoleCashier)
	}

	fields := map[string]string{}
	if input.FirstName == "" {
		fields["firstName"] = "First name can't be blank."
	}
	if input.LastName == "" {
		fields["lastName"] = "Last name can't be blank."
	}
	if input.PhoneNumber == "" {
		fields["phoneNumber"] = "Phone number can't be blank."
	}
	switch {
	case input.Email == "":
		fields["email"] = "Email address can't be blank."
	case !emailPattern.MatchString(input.Email):
		fields["email"] = "The email address you've entered is invalid."
	}
	switch {
	case input.Password == "":
		fields["password"] = "Password can't be blank."
	case len(input.Password) < 8:
		fields["password"] = "Your password must be at least 8 characters long."
	}
	if !access.IsValidRole(input.Role) {
		fields["role"] = "The role you've chosen is invalid."
	}
	if len(fields) > 0 {
		return nil, "", apperr.NewValidation(fields)
	}

	a := &Admin{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		Role:        access.Role(input.Role),
	}
	if err := a.SetPassword(input.Password); err != nil {
		return nil, "", apperr.Wrap(err)
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, a)
	if err != nil {
		return nil, "", err
	}

	return a, token, nil
}

// Login verifies credentials and issues a new session token. Unknown email
// and wrong password are indistinguishable on purpose.
func (s *adminService) Login(ctx context.Context, email, password string) (*Admin, string, error) {
	credentialsErr := apperr.New(apperr.NotFound,
		"We couldn't find an account with that email and password combination.")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", credentialsErr
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			return nil, "", credentialsErr
		}
		return nil, "", err
	}

	if !a.CheckPassword(password) {
		return nil, "", credentialsErr
	}

	token, err := s.issueToken(ctx, a)
	if err != nil {
		return nil, "", err
	}

	return a, token, nil
}

// Logout revokes exactly one session token; other sessions stay live.
func (s *adminService) Logout(ctx context.Context, id, token string) error {
	return s.repo.RemoveToken(ctx, id, token)
}

// LogoutAll revokes every live session for the account.
func (s *adminService) LogoutAll(ctx context.Context, id string) error {
	return s.repo.ClearTokens(ctx, id)
}

func (s *adminService) Get(ctx context.Context, id string) (*Admin, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *adminService) List(ctx context.Context, p query.ListParams) ([]*Admin, error) {
	return s.repo.List(ctx, p)
}

// Update applies a whitelisted partial update. Check order is fixed:
// whitelist, then role, then existence.
func (s *adminService) Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*Admin, error) {
	if err := apperr.CheckWhitelist(patch, allowedUpdates); err != nil {
		return nil, err
	}

	identity := auth.IdentityFrom(ctx)
	if identity == nil {
		return nil, apperr.NewAuthorization()
	}
	if identity.ID != id && !access.Allowed(access.ResourceAdmin, access.OpUpdate, identity.Role) {
		return nil, apperr.NewAuthorization()
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	for key, raw := range patch {
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, apperr.New(apperr.Client, "The information you've entered is invalid.")
		}

		switch key {
		case "firstName":
			if value = strings.TrimSpace(value); value == "" {
				fields[key] = "First name can't be blank."
			}
			a.FirstName = value
		case "lastName":
			if value = strings.TrimSpace(value); value == "" {
				fields[key] = "Last name can't be blank."
			}
			a.LastName = value
		case "phoneNumber":
			if value = strings.TrimSpace(value); value == "" {
				fields[key] = "Phone number can't be blank."
			}
			a.PhoneNumber = value
		case "password":
			if len(value) < 8 {
				fields[key] = "Your password must be at least 8 characters long."
				continue
			}
			// Re-hash on every password change; plaintext never persists.
			if err := a.SetPassword(value); err != nil {
				return nil, apperr.Wrap(err)
			}
		}
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation(fields)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *adminService) Delete(ctx context.Context, id string) error {
	identity := auth.IdentityFrom(ctx)
	if identity == nil {
		return apperr.NewAuthorization()
	}
	if identity.ID != id && !access.Allowed(access.ResourceAdmin, access.OpDelete, identity.Role) {
		return apperr.NewAuthorization()
	}

	return s.repo.Delete(ctx, id)
}

// issueToken signs a fresh token and appends it to the live set.
func (s *adminService) issueToken(ctx context.Context, a *Admin) (string, error) {
	token, err := s.tokens.Issue(a.ID)
	if err != nil {
		return "", apperr.Wrap(err)
	}

	if err := s.repo.AddToken(ctx, a.ID, token); err != nil {
		return "", err
	}
	a.Tokens = append(a.Tokens, token)

	return token, nil
}

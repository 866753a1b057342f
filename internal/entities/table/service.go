package table

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shababeek/pos/internal/access"
	"github.com/shababeek/pos/internal/apperr"
	"github.com/shababeek/pos/internal/auth"
	"github.com/shababeek/pos/internal/query"
)

var allowedUpdates = []string{"name"}

type Service interface {
	Create(ctx context.Context, input Input) (*Table, error)
	Get(ctx context.Context, id string) (*Table, error)
	List(ctx context.Context, p query.ListParams) ([]*Table, error)
	Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*Table, error)
	Delete(ctx context.Context, id string) error
}

type Input struct {
	Name string `json:"name"`
}

type tableService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &tableService{repo: repo}
}

func (s *tableService) Create(ctx context.Context, input Input) (*Table, error) {
	if err := requireRole(ctx, access.OpCreate); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, apperr.NewValidation(map[string]string{"name": "Name can't be blank."})
	}

	t := &Table{Name: input.Name}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *tableService) Get(ctx context.Context, id string) (*Table, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *tableService) List(ctx context.Context, p query.ListParams) ([]*Table, error) {
	return s.repo.List(ctx, p)
}

// Update applies a whitelisted partial update: whitelist, then role, then
// existence.
func (s *tableService) Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*Table, error) {
	if err := apperr.CheckWhitelist(patch, allowedUpdates); err != nil {
		return nil, err
	}
	if err := requireRole(ctx, access.OpUpdate); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, ok := patch["name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, apperr.New(apperr.Client, "The information you've entered is invalid.")
		}
		if name = strings.TrimSpace(name); name == "" {
			return nil, apperr.NewValidation(map[string]string{"name": "Name can't be blank."})
		}
		t.Name = name
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *tableService) Delete(ctx context.Context, id string) error {
	if err := requireRole(ctx, access.OpDelete); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func requireRole(ctx context.Context, op access.Operation) error {
	identity := auth.IdentityFrom(ctx)
	if identity == nil || !access.Allowed(access.ResourceTable, op, identity.Role) {
		return apperr.NewAuthorization()
	}
	return nil
}

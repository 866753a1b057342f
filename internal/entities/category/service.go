package category

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shababeek/pos/internal/access"
	"github.com/shababeek/pos/internal/apperr"
	"github.com/shababeek/pos/internal/auth"
)

var allowedUpdates = []string{"description", "isActive"}

type Service interface {
	Create(ctx context.Context, input Input) (*Category, error)
	Get(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context, opts ListOptions) ([]*Category, error)
	Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*Category, error)
	Delete(ctx context.Context, id string) error
}

type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

type categoryService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, input Input) (*Category, error) {
	if err := requireRole(ctx, access.OpCreate); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "Name can't be blank."
	}
	if input.Description == "" {
		fields["description"] = "Description can't be blank."
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation(fields)
	}

	c := &Category{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	}
	if input.IsActive != nil {
		c.IsActive = *input.IsActive
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) List(ctx context.Context, opts ListOptions) ([]*Category, error) {
	return s.repo.List(ctx, opts)
}

// Update applies a whitelisted partial update: whitelist, then role, then
// existence.
func (s *categoryService) Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*Category, error) {
	if err := apperr.CheckWhitelist(patch, allowedUpdates); err != nil {
		return nil, err
	}
	if err := requireRole(ctx, access.OpUpdate); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, ok := patch["description"]; ok {
		var description string
		if err := json.Unmarshal(raw, &description); err != nil {
			return nil, apperr.New(apperr.Client, "The information you've entered is invalid.")
		}
		if description = strings.TrimSpace(description); description == "" {
			return nil, apperr.NewValidation(map[string]string{"description": "Description can't be blank."})
		}
		c.Description = description
	}
	if raw, ok := patch["isActive"]; ok {
		if err := json.Unmarshal(raw, &c.IsActive); err != nil {
			return nil, apperr.New(apperr.Client, "The information you've entered is invalid.")
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := requireRole(ctx, access.OpDelete); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func requireRole(ctx context.Context, op access.Operation) error {
	identity := auth.IdentityFrom(ctx)
	if identity == nil || !access.Allowed(access.ResourceCategory, op, identity.Role) {
		return apperr.NewAuthorization()
	}
	return nil
}

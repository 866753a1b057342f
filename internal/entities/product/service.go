package product

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shababeek/pos/internal/access"
	"github.com/shababeek/pos/internal/apperr"
	"github.com/shababeek/pos/internal/auth"
)

var allowedUpdates = []string{
	"description", "price", "imageUrl", "minimumOrdered", "maximumOrdered", "isActive",
}

type Service interface {
	Create(ctx context.Context, input Input) (*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*Product, error)
	Delete(ctx context.Context, id string) error
}

// Input is the creation request shape; ordering bounds are pointers so a
// missing field is distinguishable from zero.
type Input struct {
	Category       string `json:"category"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          string `json:"price"`
	ImageUrl       string `json:"imageUrl"`
	MinimumOrdered *int   `json:"minimumOrdered"`
	MaximumOrdered *int   `json:"maximumOrdered"`
	IsActive       *bool  `json:"isActive"`
}

type productService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, input Input) (*Product, error) {
	if err := requireRole(ctx, access.OpCreate); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Price = strings.TrimSpace(input.Price)

	fields := map[string]string{}
	if input.Category == "" {
		fields["category"] = "A category ID must be attached to the product."
	}
	if input.Name == "" {
		fields["name"] = "Name can't be blank."
	}
	if input.Description == "" {
		fields["description"] = "Description can't be blank."
	}
	if input.Price == "" {
		fields["price"] = "Price can't be blank."
	}
	if input.MinimumOrdered == nil {
		fields["minimumOrdered"] = "Minimum ordered can't be blank."
	}
	if input.MaximumOrdered == nil {
		fields["maximumOrdered"] = "Maximum ordered can't be blank."
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation(fields)
	}

	p := &Product{
		Category:       CategoryRef{ID: input.Category},
		Name:           input.Name,
		Description:    input.Description,
		Price:          input.Price,
		ImageUrl:       input.ImageUrl,
		MinimumOrdered: *input.MinimumOrdered,
		MaximumOrdered: *input.MaximumOrdered,
		IsActive:       true,
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *productService) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *productService) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	return s.repo.List(ctx, opts)
}

// Update applies a whitelisted partial update: whitelist, then role, then
// existence.
func (s *productService) Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*Product, error) {
	if err := apperr.CheckWhitelist(patch, allowedUpdates); err != nil {
		return nil, err
	}
	if err := requireRole(ctx, access.OpUpdate); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	for key, raw := range patch {
		var bad bool
		switch key {
		case "description":
			bad = json.Unmarshal(raw, &p.Description) != nil
			if p.Description = strings.TrimSpace(p.Description); !bad && p.Description == "" {
				fields[key] = "Description can't be blank."
			}
		case "price":
			bad = json.Unmarshal(raw, &p.Price) != nil
			if p.Price = strings.TrimSpace(p.Price); !bad && p.Price == "" {
				fields[key] = "Price can't be blank."
			}
		case "imageUrl":
			bad = json.Unmarshal(raw, &p.ImageUrl) != nil
		case "minimumOrdered":
			bad = json.Unmarshal(raw, &p.MinimumOrdered) != nil
		case "maximumOrdered":
			bad = json.Unmarshal(raw, &p.MaximumOrdered) != nil
		case "isActive":
			bad = json.Unmarshal(raw, &p.IsActive) != nil
		}
		if bad {
			return nil, apperr.New(apperr.Client, "The information you've entered is invalid.")
		}
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation(fields)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := requireRole(ctx, access.OpDelete); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func requireRole(ctx context.Context, op access.Operation) error {
	identity := auth.IdentityFrom(ctx)
	if identity == nil || !access.Allowed(access.ResourceProduct, op, identity.Role) {
		return apperr.NewAuthorization()
	}
	return nil
}

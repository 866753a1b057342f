package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shababeek/pos/internal/access"
	"github.com/shababeek/pos/internal/apperr"
	"github.com/shababeek/pos/internal/auth"
)

var allowedUpdates = []string{"status", "paymentType", "products"}

type Service interface {
	Create(ctx context.Context, input Input) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, opts ListOptions) ([]*Order, error)
	Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*Order, error)
	Delete(ctx context.Context, id string) error
}

// Input is the creation request shape. Line item counts are pointers so a
// missing count is distinguishable from zero.
type Input struct {
	Admin       string      `json:"admin"`
	Table       string      `json:"table"`
	Category    string      `json:"category"`
	Status      string      `json:"status"`
	PaymentType string      `json:"paymentType"`
	Products    []ItemInput `json:"products"`
}

type ItemInput struct {
	Product string `json:"product"`
	Price   string `json:"price"`
	Count   *int   `json:"count"`
}

type orderService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &orderService{repo: repo}
}

func (s *orderService) Create(ctx context.Context, input Input) (*Order, error) {
	if err := requireRole(ctx, access.OpCreate); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if input.Admin == "" {
		fields["admin"] = "A admin ID must be attached to the order."
	}
	if input.Table == "" {
		fields["table"] = "A table ID must be attached to the order."
	}
	if input.Category == "" {
		fields["category"] = "A category ID must be attached to the order."
	}
	switch {
	case input.Status == "":
		fields["status"] = "You must choose a status."
	case !isValidStatus(input.Status):
		fields["status"] = "The status you've chosen is invalid."
	}
	if input.PaymentType != "" && !isValidPaymentType(input.PaymentType) {
		fields["paymentType"] = "The payment type you've chosen is invalid."
	}

	items, itemFields := buildLineItems(input.Products)
	for k, v := range itemFields {
		fields[k] = v
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation(fields)
	}

	o := &Order{
		Admin:       AdminRef{ID: input.Admin},
		Table:       NameRef{ID: input.Table},
		Category:    NameRef{ID: input.Category},
		Status:      input.Status,
		PaymentType: input.PaymentType,
		Products:    items,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	// Re-read so the response carries the hydrated references.
	return s.repo.GetByID(ctx, o.ID)
}

func (s *orderService) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

// List applies the row-level scoping rule: a Cashier only ever sees their
// own orders, whatever admin filter the request carried.
func (s *orderService) List(ctx context.Context, opts ListOptions) ([]*Order, error) {
	identity := auth.IdentityFrom(ctx)
	if identity == nil {
		return nil, apperr.NewAuthorization()
	}
	if identity.Role == access.RoleCashier {
		opts.Admin = identity.ID
	}

	return s.repo.List(ctx, opts)
}

func (s *orderService) Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*Order, error) {
	if err := apperr.CheckWhitelist(patch, allowedUpdates); err != nil {
		return nil, err
	}
	if err := requireRole(ctx, access.OpUpdate); err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	for key, raw := range patch {
		var bad bool
		switch key {
		case "status":
			bad = json.Unmarshal(raw, &o.Status) != nil
			if !bad && !isValidStatus(o.Status) {
				fields[key] = "The status you've chosen is invalid."
			}
		case "paymentType":
			bad = json.Unmarshal(raw, &o.PaymentType) != nil
			if !bad && o.PaymentType != "" && !isValidPaymentType(o.PaymentType) {
				fields[key] = "The payment type you've chosen is invalid."
			}
		case "products":
			var items []ItemInput
			bad = json.Unmarshal(raw, &items) != nil
			if !bad {
				built, itemFields := buildLineItems(items)
				for k, v := range itemFields {
					fields[k] = v
				}
				o.Products = built
			}
		}
		if bad {
			return nil, apperr.New(apperr.Client, "The information you've entered is invalid.")
		}
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation(fields)
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	if err := requireRole(ctx, access.OpDelete); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// buildLineItems validates the submitted items and stamps each with a fresh
// id. The aggregate rule comes first: an empty list fails as a whole before
// any per-item check runs.
func buildLineItems(inputs []ItemInput) ([]LineItem, map[string]string) {
	fields := map[string]string{}
	if len(inputs) == 0 {
		fields["products"] = "Products can't be empty."
		return nil, fields
	}

	items := make([]LineItem, 0, len(inputs))
	for i, in := range inputs {
		in.Price = strings.TrimSpace(in.Price)

		if in.Product == "" {
			fields[fmt.Sprintf("products.%d.product", i)] = "A product ID must be attached to the order's products."
		}
		if in.Price == "" {
			fields[fmt.Sprintf("products.%d.price", i)] = "Price can't be blank."
		}
		switch {
		case in.Count == nil:
			fields[fmt.Sprintf("products.%d.count", i)] = "Count can't be blank."
			continue
		case *in.Count <= 0:
			fields[fmt.Sprintf("products.%d.count", i)] = "Count must be a positive number."
			continue
		}

		items = append(items, LineItem{
			ID:      uuid.NewString(),
			Product: in.Product,
			Price:   in.Price,
			Count:   *in.Count,
		})
	}
	if len(fields) > 0 {
		return nil, fields
	}

	return items, nil
}

func requireRole(ctx context.Context, op access.Operation) error {
	identity := auth.IdentityFrom(ctx)
	if identity == nil || !access.Allowed(access.ResourceOrder, op, identity.Role) {
		return apperr.NewAuthorization()
	}
	return nil
}

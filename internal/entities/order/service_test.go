package order

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shababeek/pos/internal/access"
	"github.com/shababeek/pos/internal/apperr"
	"github.com/shababeek/pos/internal/auth"
)

type fakeRepository struct {
	orders   map[string]*Order
	lastList ListOptions
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{orders: map[string]*Order{}}
}

func (f *fakeRepository) Create(_ context.Context, o *Order) error {
	o.ID = uuid.NewString()
	f.orders[o.ID] = o
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, apperr.New(apperr.NotFound, notFoundMessage)
}

func (f *fakeRepository) List(_ context.Context, opts ListOptions) ([]*Order, error) {
	f.lastList = opts
	out := []*Order{}
	for _, o := range f.orders {
		if opts.Admin != "" && o.Admin.ID != opts.Admin {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepository) Update(_ context.Context, o *Order) error {
	if _, ok := f.orders[o.ID]; !ok {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}
	f.orders[o.ID] = o
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.orders[id]; !ok {
		return apperr.New(apperr.NotFound, notFoundMessage)
	}
	delete(f.orders, id)
	return nil
}

func ctxWithRole(id string, role access.Role) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{ID: id, Role: role}, "")
}

func count(n int) *int { return &n }

func validInput() Input {
	return Input{
		Admin:    "admin-1",
		Table:    "table-1",
		Category: "category-1",
		Status:   "Ordered",
		Products: []ItemInput{
			{Product: "product-1", Price: "100", Count: count(3)},
		},
	}
}

func TestCreate(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	o, err := svc.Create(ctxWithRole("cashier-1", access.RoleCashier), validInput())
	require.NoError(t, err)

	require.Len(t, o.Products, 1)
	assert.NotEmpty(t, o.Products[0].ID, "line items get their own id")
	assert.Equal(t, "product-1", o.Products[0].Product)
	assert.Equal(t, "100", o.Products[0].Price)
	assert.Equal(t, 3, o.Products[0].Count)
	assert.Equal(t, "Ordered", o.Status)
}

func TestCreateEmptyProducts(t *testing.T) {
	svc := NewService(newFakeRepository())

	input := validInput()
	input.Products = nil

	_, err := svc.Create(ctxWithRole("cashier-1", access.RoleCashier), input)
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.Validation, e.Kind)
	assert.Equal(t, "Products can't be empty.", e.Fields["products"])
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepository())

	_, err := svc.Create(ctxWithRole("cashier-1", access.RoleCashier), Input{
		Status:      "Eaten",
		PaymentType: "Barter",
		Products: []ItemInput{
			{Product: "", Price: " ", Count: nil},
		},
	})
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "A admin ID must be attached to the order.", e.Fields["admin"])
	assert.Equal(t, "A table ID must be attached to the order.", e.Fields["table"])
	assert.Equal(t, "A category ID must be attached to the order.", e.Fields["category"])
	assert.Equal(t, "The status you've chosen is invalid.", e.Fields["status"])
	assert.Equal(t, "The payment type you've chosen is invalid.", e.Fields["paymentType"])
	assert.Equal(t, "A product ID must be attached to the order's products.", e.Fields["products.0.product"])
	assert.Equal(t, "Price can't be blank.", e.Fields["products.0.price"])
	assert.Equal(t, "Count can't be blank.", e.Fields["products.0.count"])
}

func TestCreateNonPositiveCount(t *testing.T) {
	svc := NewService(newFakeRepository())

	input := validInput()
	input.Products = []ItemInput{{Product: "product-1", Price: "100", Count: count(0)}}

	_, err := svc.Create(ctxWithRole("cashier-1", access.RoleCashier), input)
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Count must be a positive number.", e.Fields["products.0.count"])
}

func TestCreateMissingStatus(t *testing.T) {
	svc := NewService(newFakeRepository())

	input := validInput()
	input.Status = ""

	_, err := svc.Create(ctxWithRole("cashier-1", access.RoleCashier), input)
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "You must choose a status.", e.Fields["status"])
}

func TestCreateRequiresIdentity(t *testing.T) {
	svc := NewService(newFakeRepository())

	_, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))
}

func TestListCashierScoping(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	mine := &Order{Admin: AdminRef{ID: "cashier-1"}, Status: "Ordered"}
	theirs := &Order{Admin: AdminRef{ID: "admin-1"}, Status: "Paid"}
	require.NoError(t, repo.Create(context.Background(), mine))
	require.NoError(t, repo.Create(context.Background(), theirs))

	// Cashiers only see their own orders, even when the request filters by
	// someone else's id.
	out, err := svc.List(ctxWithRole("cashier-1", access.RoleCashier), ListOptions{Admin: "admin-1"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "cashier-1", out[0].Admin.ID)
	assert.Equal(t, "cashier-1", repo.lastList.Admin)
}

func TestListAdminFilterHonored(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	require.NoError(t, repo.Create(context.Background(), &Order{Admin: AdminRef{ID: "cashier-1"}}))
	require.NoError(t, repo.Create(context.Background(), &Order{Admin: AdminRef{ID: "cashier-2"}}))

	out, err := svc.List(ctxWithRole("admin-1", access.RoleAdmin), ListOptions{Admin: "cashier-2"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "cashier-2", out[0].Admin.ID)
}

func TestUpdateWhitelist(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	o, err := svc.Create(ctxWithRole("admin-1", access.RoleAdmin), validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctxWithRole("admin-1", access.RoleAdmin), o.ID, map[string]json.RawMessage{
		"status": json.RawMessage(`"Paid"`),
		"admin":  json.RawMessage(`"someone-else"`),
	})
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.Validation, e.Kind)
	assert.Equal(t, "Admin cannot be modified.", e.Fields["admin"])

	stored := repo.orders[o.ID]
	assert.Equal(t, "Ordered", stored.Status, "a rejected patch applies nothing")
}

func TestUpdateCashierDenied(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	o, err := svc.Create(ctxWithRole("cashier-1", access.RoleCashier), validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctxWithRole("cashier-1", access.RoleCashier), o.ID, map[string]json.RawMessage{
		"status": json.RawMessage(`"Paid"`),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))
}

func TestUpdate(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	o, err := svc.Create(ctxWithRole("admin-1", access.RoleAdmin), validInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctxWithRole("admin-1", access.RoleAdmin), o.ID, map[string]json.RawMessage{
		"status":      json.RawMessage(`"Paid"`),
		"paymentType": json.RawMessage(`"Cash"`),
		"products":    json.RawMessage(`[{"product": "product-2", "price": "50", "count": 1}]`),
	})
	require.NoError(t, err)

	assert.Equal(t, "Paid", updated.Status)
	assert.Equal(t, "Cash", updated.PaymentType)
	require.Len(t, updated.Products, 1)
	assert.Equal(t, "product-2", updated.Products[0].Product)
}

func TestUpdateEmptyProducts(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	o, err := svc.Create(ctxWithRole("admin-1", access.RoleAdmin), validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctxWithRole("admin-1", access.RoleAdmin), o.ID, map[string]json.RawMessage{
		"products": json.RawMessage(`[]`),
	})
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Products can't be empty.", e.Fields["products"])
}

func TestUpdateInvalidStatus(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	o, err := svc.Create(ctxWithRole("admin-1", access.RoleAdmin), validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctxWithRole("admin-1", access.RoleAdmin), o.ID, map[string]json.RawMessage{
		"status": json.RawMessage(`"Eaten"`),
	})
	require.Error(t, err)

	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "The status you've chosen is invalid.", e.Fields["status"])
}

func TestDeleteRoles(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	o, err := svc.Create(ctxWithRole("admin-1", access.RoleAdmin), validInput())
	require.NoError(t, err)

	err = svc.Delete(ctxWithRole("admin-1", access.RoleAdmin), o.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))

	require.NoError(t, svc.Delete(ctxWithRole("super-1", access.RoleSuperAdmin), o.ID))
	assert.Empty(t, repo.orders)
}

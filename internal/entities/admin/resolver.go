package admin

import (
	"context"

	"github.com/shababeek/pos/internal/auth"
)

// Resolver adapts the admin repository to the guard's token resolution: an
// identity only resolves while the presented token is still in its live set.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

func (r *Resolver) ResolveToken(ctx context.Context, identityID, token string) (*auth.Identity, error) {
	a, err := r.repo.GetByIDAndToken(ctx, identityID, token)
	if err != nil {
		return nil, err
	}

	return &auth.Identity{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
	}, nil
}

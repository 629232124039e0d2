package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/vastra/app/services"
)

// Resolver bundles the services the schema resolves against.
type Resolver struct {
	Auth     *services.AuthService
	Reset    *services.ResetService
	Items    *services.ItemService
	Carts    *services.CartService
	Users    *services.UserService
	Orders   *services.OrderService
	Checkout *services.CheckoutService
}

// NewSchema builds the executable schema over the given resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    r.queryType(),
		Mutation: r.mutationType(),
	})
}

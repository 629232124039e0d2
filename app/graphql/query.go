package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/vastra/pkg/middleware"
)

func (r *Resolver) queryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			// me is null for anonymous callers, never an error.
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user := middleware.UserFromCtx(p.Context)
					if user == nil {
						return nil, nil
					}
					return user, nil
				},
			},

			"item": &graphql.Field{
				Type: itemType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					item, err := r.Items.Find(id)
					return item, wrapErr(err)
				},
			},

			"items": &graphql.Field{
				Type: graphql.NewList(itemType),
				Args: graphql.FieldConfigArgument{
					"skip":  &graphql.ArgumentConfig{Type: graphql.Int},
					"first": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					skip, _ := intArg(p, "skip")
					first, _ := intArg(p, "first")
					items, err := r.Items.List(skip, first)
					return items, wrapErr(err)
				},
			},

			"itemsCount": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					n, err := r.Items.Count()
					return int(n), wrapErr(err)
				},
			},

			"cart": &graphql.Field{
				Type: graphql.NewList(cartItemType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := r.Carts.Cart(middleware.UserFromCtx(p.Context))
					return rows, wrapErr(err)
				},
			},

			"users": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					users, err := r.Users.Users(middleware.UserFromCtx(p.Context))
					return users, wrapErr(err)
				},
			},

			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					order, err := r.Orders.Find(middleware.UserFromCtx(p.Context), id)
					return order, wrapErr(err)
				},
			},

			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					orders, err := r.Orders.ForViewer(middleware.UserFromCtx(p.Context))
					return orders, wrapErr(err)
				},
			},
		},
	})
}

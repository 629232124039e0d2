package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
)

func (r *Resolver) mutationType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signup": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, token, err := r.Auth.Signup(
						stringArg(p, "name"), stringArg(p, "email"), stringArg(p, "password"))
					if err != nil {
						return nil, wrapErr(err)
					}
					if w := cookieWriter(p.Context); w != nil {
						auth.SetCookie(w, token)
					}
					return user, nil
				},
			},

			"signin": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, token, err := r.Auth.Signin(stringArg(p, "email"), stringArg(p, "password"))
					if err != nil {
						return nil, wrapErr(err)
					}
					if w := cookieWriter(p.Context); w != nil {
						auth.SetCookie(w, token)
					}
					return user, nil
				},
			},

			// Idempotent: clearing an absent cookie succeeds the same way.
			"signout": &graphql.Field{
				Type: messageType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if w := cookieWriter(p.Context); w != nil {
						auth.ClearCookie(w)
					}
					return map[string]interface{}{"message": "Goodbye!"}, nil
				},
			},

			"requestReset": &graphql.Field{
				Type: messageType,
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := r.Reset.RequestReset(p.Context, stringArg(p, "email")); err != nil {
						return nil, wrapErr(err)
					}
					return map[string]interface{}{"message": "Thanks! Check your email."}, nil
				},
			},

			"resetPassword": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"resetToken":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"confirmPassword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, token, err := r.Reset.ResetPassword(p.Context,
						stringArg(p, "resetToken"), stringArg(p, "password"), stringArg(p, "confirmPassword"))
					if err != nil {
						return nil, wrapErr(err)
					}
					if w := cookieWriter(p.Context); w != nil {
						auth.SetCookie(w, token)
					}
					return user, nil
				},
			},

			"createItem": &graphql.Field{
				Type: itemType,
				Args: graphql.FieldConfigArgument{
					"title":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"price":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"image":       &graphql.ArgumentConfig{Type: graphql.String},
					"largeImage":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					price, _ := intArg(p, "price")
					item, err := r.Items.Create(middleware.UserFromCtx(p.Context), services.CreateItemInput{
						Title:       stringArg(p, "title"),
						Description: stringArg(p, "description"),
						Price:       price,
						Image:       stringArg(p, "image"),
						LargeImage:  stringArg(p, "largeImage"),
					})
					return item, wrapErr(err)
				},
			},

			"updateItem": &graphql.Field{
				Type: itemType,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"title":       &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"price":       &graphql.ArgumentConfig{Type: graphql.Int},
					"image":       &graphql.ArgumentConfig{Type: graphql.String},
					"largeImage":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					item, err := r.Items.Update(middleware.UserFromCtx(p.Context), id, services.UpdateItemInput{
						Title:       optionalString(p, "title"),
						Description: optionalString(p, "description"),
						Price:       optionalInt(p, "price"),
						Image:       optionalString(p, "image"),
						LargeImage:  optionalString(p, "largeImage"),
					})
					return item, wrapErr(err)
				},
			},

			"deleteItem": &graphql.Field{
				Type: itemType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					item, err := r.Items.Delete(middleware.UserFromCtx(p.Context), id)
					return item, wrapErr(err)
				},
			},

			"addToCart": &graphql.Field{
				Type: cartItemType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					row, err := r.Carts.AddToCart(middleware.UserFromCtx(p.Context), id)
					return row, wrapErr(err)
				},
			},

			"removeFromCart": &graphql.Field{
				Type: cartItemType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "id")
					if err != nil {
						return nil, err
					}
					row, err := r.Carts.RemoveFromCart(middleware.UserFromCtx(p.Context), id)
					return row, wrapErr(err)
				},
			},

			"updatePermissions": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"userId":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"permissions": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p, "userId")
					if err != nil {
						return nil, err
					}
					var perms []string
					if raw, ok := p.Args["permissions"].([]interface{}); ok {
						for _, v := range raw {
							if s, ok := v.(string); ok {
								perms = append(perms, s)
							}
						}
					}
					user, err := r.Users.UpdatePermissions(middleware.UserFromCtx(p.Context), id, perms)
					return user, wrapErr(err)
				},
			},

			"checkout": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					// token is the gateway payment source from the client;
					// idempotencyKey makes retries safe.
					"token":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"idempotencyKey": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, err := r.Checkout.Checkout(p.Context,
						middleware.UserFromCtx(p.Context),
						stringArg(p, "token"), stringArg(p, "idempotencyKey"))
					return order, wrapErr(err)
				},
			},
		},
	})
}

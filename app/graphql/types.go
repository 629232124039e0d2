// Package graphql binds the store's services to a GraphQL surface.
//
// Resolvers hold no business logic: each one parses arguments, pulls the
// hydrated viewer off the request context, calls a service, and hands
// back the result. Faults travel as extended errors so clients see the
// kind without the internals.
package graphql

import (
	"strconv"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/vastra/pkg/faults"
)

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"permissions": &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var itemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Item",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"image":       &graphql.Field{Type: graphql.String},
		"largeImage":  &graphql.Field{Type: graphql.String},
		"userId":      &graphql.Field{Type: graphql.ID},
	},
})

var cartItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CartItem",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"quantity": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"item":     &graphql.Field{Type: itemType},
	},
})

var orderItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderItem",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"image":       &graphql.Field{Type: graphql.String},
		"largeImage":  &graphql.Field{Type: graphql.String},
		"quantity":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"total":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"charge": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"items":  &graphql.Field{Type: graphql.NewList(orderItemType)},
	},
})

var messageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SuccessMessage",
	Fields: graphql.Fields{
		"message": &graphql.Field{Type: graphql.String},
	},
})

// apiError lets a fault cross the GraphQL boundary with its kind in the
// extensions and only the user-safe message as the error text.
type apiError struct {
	err error
}

func (e apiError) Error() string {
	return faults.UserMessage(e.err)
}

func (e apiError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": faults.KindOf(e.err).String()}
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return apiError{err: err}
}

func parseID(v interface{}) (uint, error) {
	switch t := v.(type) {
	case int:
		return uint(t), nil
	case float64:
		return uint(t), nil
	case string:
		n, err := strconv.ParseUint(t, 10, 32)
		if err != nil {
			return 0, wrapErr(faults.Newf(faults.Validation, "invalid id %q", t))
		}
		return uint(n), nil
	default:
		return 0, wrapErr(faults.Newf(faults.Validation, "invalid id %v", v))
	}
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func intArg(p graphql.ResolveParams, name string) (int, bool) {
	n, ok := p.Args[name].(int)
	return n, ok
}

func idArg(p graphql.ResolveParams, name string) (uint, error) {
	v, ok := p.Args[name]
	if !ok {
		return 0, wrapErr(faults.Newf(faults.Validation, "%s is required", name))
	}
	return parseID(v)
}

func optionalString(p graphql.ResolveParams, name string) *string {
	if v, ok := p.Args[name].(string); ok {
		return &v
	}
	return nil
}

func optionalInt(p graphql.ResolveParams, name string) *int {
	if v, ok := p.Args[name].(int); ok {
		return &v
	}
	return nil
}

package graphql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/idempotency"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/reconcile"
)

type apiFixture struct {
	handler http.Handler
	tokens  *auth.Tokens
	users   *repositories.UserRepository
}

type silentMailer struct{}

func (silentMailer) Send(string, string, string) error { return nil }

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Item{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))

	tokens := auth.NewTokens("test-secret")
	users := repositories.NewUserRepository(db)
	items := repositories.NewItemRepository(db)
	carts := repositories.NewCartRepository(db)
	orders := repositories.NewOrderRepository(db)

	resolver := &Resolver{
		Auth:   services.NewAuthService(users, tokens),
		Reset:  services.NewResetService(users, silentMailer{}, tokens, "http://localhost:7777"),
		Items:  services.NewItemService(items),
		Carts:  services.NewCartService(carts, items),
		Users:  services.NewUserService(users),
		Orders: services.NewOrderService(orders),
		Checkout: services.NewCheckoutService(carts, orders, nil,
			idempotency.NewMemoryStore(), reconcile.NewMemoryJournal(), "usd"),
	}

	schema, err := NewSchema(resolver)
	require.NoError(t, err)

	handler := middleware.Identity(tokens)(middleware.Hydrate(users)(Handler(schema)))
	return &apiFixture{handler: handler, tokens: tokens, users: users}
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func (f *apiFixture) post(t *testing.T, query string, vars map[string]interface{}, cookies ...*http.Cookie) (*gqlResponse, *httptest.ResponseRecorder) {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return &resp, rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestSignupSetsSessionCookie(t *testing.T) {
	f := newAPIFixture(t)

	resp, rec := f.post(t,
		`mutation { signup(name: "Asha", email: "Asha@Example.com", password: "hunter22") { id email permissions } }`,
		nil)
	require.Empty(t, resp.Errors)

	var user struct {
		Email       string   `json:"email"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["signup"], &user))
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, []string{auth.PermUser}, user.Permissions)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie, "signup must set the session cookie")
	assert.True(t, cookie.HttpOnly)

	_, err := f.tokens.Verify(cookie.Value)
	assert.NoError(t, err)
}

func TestMeIsNullWhenAnonymous(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.post(t, `query { me { id email } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "null", string(resp.Data["me"]))
}

func TestMeReturnsViewerWithCookie(t *testing.T) {
	f := newAPIFixture(t)

	_, rec := f.post(t,
		`mutation { signup(name: "Asha", email: "asha@example.com", password: "pw") { id } }`, nil)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	resp, _ := f.post(t, `query { me { email } }`, nil, cookie)
	require.Empty(t, resp.Errors)

	var me struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["me"], &me))
	assert.Equal(t, "asha@example.com", me.Email)
}

func TestSignoutClearsCookieAndIsIdempotent(t *testing.T) {
	f := newAPIFixture(t)

	// Works with no session at all.
	resp, rec := f.post(t, `mutation { signout { message } }`, nil)
	require.Empty(t, resp.Errors)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)

	// And again, identically.
	resp, rec = f.post(t, `mutation { signout { message } }`, nil)
	require.Empty(t, resp.Errors)
	require.NotNil(t, sessionCookie(rec))
}

func TestGuardedMutationCarriesFaultCode(t *testing.T) {
	f := newAPIFixture(t)

	resp, _ := f.post(t,
		`mutation { createItem(title: "Kurta", price: 4500) { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "authentication_required", resp.Errors[0].Extensions["code"])
}

func TestSigninWrongPasswordIsGeneric(t *testing.T) {
	f := newAPIFixture(t)

	_, _ = f.post(t, `mutation { signup(name: "Asha", email: "asha@example.com", password: "right") { id } }`, nil)

	resp, _ := f.post(t, `mutation { signin(email: "asha@example.com", password: "wrong") { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "invalid email or password", resp.Errors[0].Message)
	assert.Equal(t, "authentication_required", resp.Errors[0].Extensions["code"])
}

func TestItemLifecycleOverAPI(t *testing.T) {
	f := newAPIFixture(t)

	_, rec := f.post(t, `mutation { signup(name: "Asha", email: "asha@example.com", password: "pw") { id } }`, nil)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	resp, _ := f.post(t,
		`mutation { createItem(title: "Kurta", description: "Linen", price: 4500) { id title price } }`,
		nil, cookie)
	require.Empty(t, resp.Errors)

	var created struct {
		ID    string `json:"id"`
		Price int    `json:"price"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["createItem"], &created))
	assert.Equal(t, 4500, created.Price)

	resp, _ = f.post(t, `query { items { title price } }`, nil)
	require.Empty(t, resp.Errors)

	var items []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["items"], &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Kurta", items[0].Title)
}

package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/faults"
	"github.com/shashiranjanraj/vastra/pkg/idempotency"
	"github.com/shashiranjanraj/vastra/pkg/payment"
	"github.com/shashiranjanraj/vastra/pkg/reconcile"
)

type checkoutFixture struct {
	db      *gorm.DB
	svc     *CheckoutService
	carts   *repositories.CartRepository
	orders  *repositories.OrderRepository
	gateway *fakeGateway
	claims  *idempotency.MemoryStore
	journal *reconcile.MemoryJournal
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	db := newTestDB(t)
	f := &checkoutFixture{
		db:      db,
		carts:   repositories.NewCartRepository(db),
		orders:  repositories.NewOrderRepository(db),
		gateway: &fakeGateway{},
		claims:  idempotency.NewMemoryStore(),
		journal: reconcile.NewMemoryJournal(),
	}
	f.svc = NewCheckoutService(f.carts, f.orders, f.gateway, f.claims, f.journal, "usd")
	return f
}

func TestCheckoutHappyPath(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createUser(t, f.db, "asha@example.com")

	// 2 × 1500 + 1 × 1500 = 4500.
	kurta := createItem(t, f.db, user, "Kurta", 1500)
	saree := createItem(t, f.db, user, "Saree", 1500)
	addCartRow(t, f.db, user, kurta, 2)
	addCartRow(t, f.db, user, saree, 1)

	order, err := f.svc.Checkout(context.Background(), user, "tok_visa", "nonce-1")
	require.NoError(t, err)

	assert.Equal(t, 4500, order.Total)
	assert.Equal(t, user.ID, order.UserID)
	assert.NotEmpty(t, order.ChargeID)
	assert.Equal(t, 1, f.gateway.callCount())

	// Snapshot lines cover the whole total.
	sum := 0
	for _, line := range order.Items {
		sum += line.Price * line.Quantity
	}
	assert.Equal(t, order.Total, sum)

	// Cart is empty afterwards.
	rows, err := f.carts.ForUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Order is durable with its snapshots.
	stored, err := f.orders.FindByID(order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestCheckoutRequiresAuth(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.Checkout(context.Background(), nil, "tok_visa", "n")
	assert.True(t, faults.Is(err, faults.AuthenticationRequired))
	assert.Zero(t, f.gateway.callCount())
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createUser(t, f.db, "asha@example.com")

	_, err := f.svc.Checkout(context.Background(), user, "tok_visa", "n")
	assert.True(t, faults.Is(err, faults.Validation))
	assert.Zero(t, f.gateway.callCount(), "gateway must not be called for an empty cart")

	// The claim was released, so a later real checkout can reuse the nonce.
	item := createItem(t, f.db, user, "Kurta", 4500)
	addCartRow(t, f.db, user, item, 1)
	_, err = f.svc.Checkout(context.Background(), user, "tok_visa", "n")
	assert.NoError(t, err)
}

func TestCheckoutDuplicateNonceRejectedBeforeGateway(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createUser(t, f.db, "asha@example.com")
	item := createItem(t, f.db, user, "Kurta", 4500)
	addCartRow(t, f.db, user, item, 1)

	_, err := f.svc.Checkout(context.Background(), user, "tok_visa", "same-nonce")
	require.NoError(t, err)
	require.Equal(t, 1, f.gateway.callCount())

	addCartRow(t, f.db, user, item, 1)
	_, err = f.svc.Checkout(context.Background(), user, "tok_visa", "same-nonce")
	assert.True(t, faults.Is(err, faults.Validation))
	assert.Equal(t, 1, f.gateway.callCount(), "duplicate nonce must not reach the gateway")
}

func TestCheckoutNonceScopedPerUser(t *testing.T) {
	f := newCheckoutFixture(t)
	asha := createUser(t, f.db, "asha@example.com")
	ravi := createUser(t, f.db, "ravi@example.com")
	item := createItem(t, f.db, asha, "Kurta", 4500)
	addCartRow(t, f.db, asha, item, 1)
	addCartRow(t, f.db, ravi, item, 1)

	_, err := f.svc.Checkout(context.Background(), asha, "tok_visa", "shared-nonce")
	require.NoError(t, err)

	// Another user with the same client nonce is unaffected.
	_, err = f.svc.Checkout(context.Background(), ravi, "tok_visa", "shared-nonce")
	assert.NoError(t, err)
}

func TestCheckoutDeclineLeavesCartAndReleasesClaim(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createUser(t, f.db, "asha@example.com")
	item := createItem(t, f.db, user, "Kurta", 4500)
	addCartRow(t, f.db, user, item, 1)

	f.gateway.decline = &payment.DeclineError{Code: "card_declined", Message: "Your card was declined."}

	_, err := f.svc.Checkout(context.Background(), user, "tok_bad", "nonce-1")
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.GatewayDeclined))

	// No order, cart untouched.
	orders, listErr := f.orders.ForUser(user.ID)
	require.NoError(t, listErr)
	assert.Empty(t, orders)

	rows, listErr := f.carts.ForUser(user.ID)
	require.NoError(t, listErr)
	assert.Len(t, rows, 1)

	// Same nonce retries fine with a working card.
	f.gateway.decline = nil
	_, err = f.svc.Checkout(context.Background(), user, "tok_visa", "nonce-1")
	assert.NoError(t, err)
}

func TestCheckoutUnreachableGatewayKeepsClaim(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createUser(t, f.db, "asha@example.com")
	item := createItem(t, f.db, user, "Kurta", 4500)
	addCartRow(t, f.db, user, item, 1)

	f.gateway.unreachable = true

	_, err := f.svc.Checkout(context.Background(), user, "tok_visa", "nonce-1")
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.TransientStore))

	// The outcome is unknown, so the same nonce stays blocked.
	f.gateway.unreachable = false
	_, err = f.svc.Checkout(context.Background(), user, "tok_visa", "nonce-1")
	assert.True(t, faults.Is(err, faults.Validation))
	assert.Equal(t, 1, f.gateway.callCount())
}

func TestCheckoutLostChargeResponseIsJournaled(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createUser(t, f.db, "asha@example.com")
	item := createItem(t, f.db, user, "Kurta", 4500)
	addCartRow(t, f.db, user, item, 1)

	f.gateway.stateUnknown = true

	_, err := f.svc.Checkout(context.Background(), user, "tok_visa", "nonce-1")
	require.Error(t, err)

	// The charge went through on the gateway's side, so this is a
	// reconciliation case, not "service unavailable, retry later".
	assert.True(t, faults.Is(err, faults.Reconciliation))
	assert.False(t, faults.Is(err, faults.TransientStore))

	// Journaled without a charge reference; the claim key, amount, and
	// user identify it for the operator.
	entries := f.journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, fmt.Sprintf("unknown:checkout:%d:nonce-1", user.ID), entries[0].ChargeID)
	assert.Equal(t, user.ID, entries[0].UserID)
	assert.Equal(t, 4500, entries[0].Amount)

	// Cart untouched; no order was recorded.
	rows, listErr := f.carts.ForUser(user.ID)
	require.NoError(t, listErr)
	assert.Len(t, rows, 1)
	orders, listErr := f.orders.ForUser(user.ID)
	require.NoError(t, listErr)
	assert.Empty(t, orders)

	// The claim stays, blocking a blind retry with the same nonce.
	f.gateway.stateUnknown = false
	_, err = f.svc.Checkout(context.Background(), user, "tok_visa", "nonce-1")
	assert.True(t, faults.Is(err, faults.Validation))
	assert.Equal(t, 1, f.gateway.callCount())
}

func TestCheckoutSnapshotsSurviveItemMutation(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createUser(t, f.db, "asha@example.com")
	item := createItem(t, f.db, user, "Kurta", 4500)
	addCartRow(t, f.db, user, item, 1)

	order, err := f.svc.Checkout(context.Background(), user, "tok_visa", "nonce-1")
	require.NoError(t, err)

	// Mutate and delete the catalogue entry after the sale.
	items := repositories.NewItemRepository(f.db)
	require.NoError(t, items.UpdateFields(item.ID, map[string]interface{}{"title": "Renamed", "price": 1}))
	require.NoError(t, items.Delete(item.ID))

	stored, err := f.orders.FindByID(order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Kurta", stored.Items[0].Title)
	assert.Equal(t, 4500, stored.Items[0].Price)
	assert.Equal(t, 4500, stored.Total)
}

func TestCheckoutPersistFailureJournalsOrphanCharge(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createUser(t, f.db, "asha@example.com")
	item := createItem(t, f.db, user, "Kurta", 4500)
	addCartRow(t, f.db, user, item, 1)

	// Force the order insert to fail: the charge id the gateway will
	// return already exists, violating the unique index.
	f.gateway.chargeID = "ch_collision"
	require.NoError(t, f.orders.Create(&models.Order{UserID: user.ID, Total: 1, ChargeID: "ch_collision"}))

	_, err := f.svc.Checkout(context.Background(), user, "tok_visa", "nonce-1")
	require.Error(t, err)

	// Reconciliation, not a decline: money moved.
	assert.True(t, faults.Is(err, faults.Reconciliation))
	assert.False(t, faults.Is(err, faults.GatewayDeclined))

	// The orphan charge is on the books for an operator.
	entries := f.journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "ch_collision", entries[0].ChargeID)
	assert.Equal(t, user.ID, entries[0].UserID)
	assert.Equal(t, 4500, entries[0].Amount)

	// The cart was not cleared; nothing was fulfilled.
	rows, listErr := f.carts.ForUser(user.ID)
	require.NoError(t, listErr)
	assert.Len(t, rows, 1)
}

func TestCheckoutDeletesOnlyCapturedRows(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createUser(t, f.db, "asha@example.com")
	kurta := createItem(t, f.db, user, "Kurta", 1500)
	saree := createItem(t, f.db, user, "Saree", 3000)
	addCartRow(t, f.db, user, kurta, 1)

	// A row added between snapshot and cleanup must survive. Simulate by
	// charging through a gateway hook that inserts mid-flight.
	g := &hookedGateway{inner: f.gateway, hook: func() {
		addCartRow(t, f.db, user, saree, 1)
	}}
	svc := NewCheckoutService(f.carts, f.orders, g, f.claims, f.journal, "usd")

	order, err := svc.Checkout(context.Background(), user, "tok_visa", "nonce-1")
	require.NoError(t, err)
	assert.Equal(t, 1500, order.Total)

	rows, err := f.carts.ForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1, "the concurrently added row must survive checkout")
	assert.Equal(t, saree.ID, rows[0].ItemID)
}

func TestCheckoutValidatesInput(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createUser(t, f.db, "asha@example.com")

	_, err := f.svc.Checkout(context.Background(), user, "", "nonce")
	assert.True(t, faults.Is(err, faults.Validation))

	_, err = f.svc.Checkout(context.Background(), user, "tok_visa", "")
	assert.True(t, faults.Is(err, faults.Validation))
}

// hookedGateway runs a callback right before charging, to model work
// that happens concurrently with the gateway call.
type hookedGateway struct {
	inner *fakeGateway
	hook  func()
}

func (g *hookedGateway) Charge(ctx context.Context, amount int, currency, source string) (*payment.Charge, error) {
	if g.hook != nil {
		g.hook()
	}
	return g.inner.Charge(ctx, amount, currency, source)
}

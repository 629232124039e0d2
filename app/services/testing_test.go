package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/payment"
)

// newTestDB opens a fresh in-memory SQLite database, named per test so
// parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Item{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, perms ...string) *models.User {
	t.Helper()

	if len(perms) == 0 {
		perms = []string{auth.PermUser}
	}
	hash, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)

	u := &models.User{
		Name:        "Test User",
		Email:       email,
		Password:    hash,
		Permissions: perms,
	}
	require.NoError(t, repositories.NewUserRepository(db).Create(u))
	return u
}

func createItem(t *testing.T, db *gorm.DB, owner *models.User, title string, price int) *models.Item {
	t.Helper()

	item := &models.Item{Title: title, Price: price, UserID: owner.ID}
	require.NoError(t, repositories.NewItemRepository(db).Create(item))
	return item
}

func addCartRow(t *testing.T, db *gorm.DB, user *models.User, item *models.Item, qty int) *models.CartItem {
	t.Helper()

	row := &models.CartItem{UserID: user.ID, ItemID: item.ID, Quantity: qty}
	require.NoError(t, repositories.NewCartRepository(db).Create(row))
	return row
}

// ── test doubles ─────────────────────────────────────────────────────────────

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// recordingMailer collects outgoing mail instead of delivering it.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *recordingMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// fakeGateway stands in for the payment gateway. It records every call
// and can be told to decline, drop off the network, or lose the charge
// response.
type fakeGateway struct {
	mu           sync.Mutex
	calls        int
	decline      *payment.DeclineError
	unreachable  bool
	stateUnknown bool
	chargeID     string
}

func (g *fakeGateway) Charge(_ context.Context, amount int, currency, source string) (*payment.Charge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if g.decline != nil {
		return nil, g.decline
	}
	if g.unreachable {
		return nil, fmt.Errorf("%w: connection refused", payment.ErrGatewayUnreachable)
	}
	if g.stateUnknown {
		return nil, fmt.Errorf("%w: decode response: unexpected EOF", payment.ErrChargeStateUnknown)
	}

	id := g.chargeID
	if id == "" {
		id = fmt.Sprintf("ch_test_%d", g.calls)
	}
	return &payment.Charge{ID: id, Amount: amount, Currency: currency}, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

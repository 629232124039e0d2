package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/faults"
	"github.com/shashiranjanraj/vastra/pkg/idempotency"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/payment"
	"github.com/shashiranjanraj/vastra/pkg/reconcile"
)

// claimTTL bounds how long a checkout claim blocks retries with the same
// nonce when the outcome of a gateway call is unknown.
const claimTTL = 24 * time.Hour

// CheckoutService turns a cart into an order through exactly one gateway
// charge.
//
// The gateway and the relational store cannot share a transaction, so
// the sequencing here is the guarantee: the idempotency claim is taken
// before the charge, the charge happens at most once per invocation, and
// a charge that cannot be matched with a persisted order is journaled
// for an operator rather than silently dropped.
type CheckoutService struct {
	carts   *repositories.CartRepository
	orders  *repositories.OrderRepository
	gateway payment.Gateway
	claims  idempotency.Store
	journal reconcile.Journal

	currency string
}

func NewCheckoutService(
	carts *repositories.CartRepository,
	orders *repositories.OrderRepository,
	gateway payment.Gateway,
	claims idempotency.Store,
	journal reconcile.Journal,
	currency string,
) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		gateway:  gateway,
		claims:   claims,
		journal:  journal,
		currency: currency,
	}
}

// Checkout charges the caller's cart and records the order. The source
// is the opaque payment token from the client; the nonce is the client's
// idempotency key, scoped per user.
//
// Failure semantics:
//   - gateway decline: no order, cart untouched, claim released so the
//     same nonce can retry with another card.
//   - gateway unreachable: outcome unknown, claim kept until it expires.
//   - charge confirmed but response lost: journaled as an orphan with no
//     charge reference, claim kept, Reconciliation fault returned.
//   - order persist failure after a successful charge: the charge is
//     journaled as an orphan and a Reconciliation fault is returned.
//   - cart cleanup failure: logged, the order is still returned.
func (s *CheckoutService) Checkout(ctx context.Context, user *models.User, source, nonce string) (*models.Order, error) {
	if user == nil {
		return nil, faults.New(faults.AuthenticationRequired, "you must be signed in to do that")
	}
	if source == "" {
		return nil, faults.New(faults.Validation, "payment source is required")
	}
	if nonce == "" {
		return nil, faults.New(faults.Validation, "idempotency key is required")
	}

	key := fmt.Sprintf("checkout:%d:%s", user.ID, nonce)
	ok, err := s.claims.Claim(ctx, key, claimTTL)
	if err != nil {
		return nil, faults.Wrap(faults.TransientStore, "could not start checkout", err)
	}
	if !ok {
		return nil, faults.New(faults.Validation, "a checkout with this key was already submitted")
	}

	// Single snapshot read. Everything below works off these rows, so a
	// concurrent cart change cannot alter what gets charged.
	rows, err := s.carts.ForUser(user.ID)
	if err != nil {
		s.release(ctx, key)
		return nil, faults.Wrap(faults.TransientStore, "could not read cart", err)
	}

	var (
		amount    int
		snapshots []models.OrderItem
		rowIDs    []uint
	)
	for _, row := range rows {
		if row.Item == nil {
			// Item deleted after it was added; drop the stale row with
			// the rest of the cart on success.
			rowIDs = append(rowIDs, row.ID)
			continue
		}
		amount += row.Item.Price * row.Quantity
		snapshots = append(snapshots, models.OrderItem{
			Title:       row.Item.Title,
			Description: row.Item.Description,
			Price:       row.Item.Price,
			Image:       row.Item.Image,
			LargeImage:  row.Item.LargeImage,
			Quantity:    row.Quantity,
		})
		rowIDs = append(rowIDs, row.ID)
	}

	if len(snapshots) == 0 || amount <= 0 {
		s.release(ctx, key)
		return nil, faults.New(faults.Validation, "your cart is empty")
	}

	charge, err := s.gateway.Charge(ctx, amount, s.currency, source)
	if err != nil {
		var decline *payment.DeclineError
		if errors.As(err, &decline) {
			metrics.ChargesTotal.WithLabelValues("declined").Inc()
			s.release(ctx, key)
			msg := decline.Message
			if msg == "" {
				msg = "your payment was declined"
			}
			return nil, faults.Wrap(faults.GatewayDeclined, msg, err)
		}

		// The gateway confirmed the charge but its response was lost.
		// There is no charge id to key an order on, so this goes straight
		// to the journal; the kept claim blocks a blind retry meanwhile.
		if errors.Is(err, payment.ErrChargeStateUnknown) {
			metrics.ChargesTotal.WithLabelValues("unknown").Inc()
			metrics.ReconciliationFailures.Inc()
			logger.WithCtx(ctx).Error("charge confirmed but response lost",
				"user_id", user.ID, "amount", amount, "error", err)
			if jerr := s.journal.Record(ctx, reconcile.Entry{
				ChargeID: "unknown:" + key,
				UserID:   user.ID,
				Amount:   amount,
				Currency: s.currency,
				Reason:   err.Error(),
			}); jerr != nil {
				logger.WithCtx(ctx).Error("reconciliation journal write failed", "key", key, "error", jerr)
			}
			return nil, faults.Wrap(faults.Reconciliation,
				"we could not confirm your payment; support has been notified, please do not retry", err)
		}

		// Transport failure: a charge may or may not exist on the other
		// side, so the claim stays to block a blind retry.
		metrics.ChargesTotal.WithLabelValues("unreachable").Inc()
		return nil, faults.Wrap(faults.TransientStore, "payment service is unavailable, please try again later", err)
	}
	metrics.ChargesTotal.WithLabelValues("succeeded").Inc()

	order := &models.Order{
		UserID:   user.ID,
		Total:    charge.Amount, // what the gateway says moved, not our sum
		ChargeID: charge.ID,
		Items:    snapshots,
	}
	if err := s.orders.Create(order); err != nil {
		s.quarantine(ctx, user.ID, charge, err)
		return nil, faults.Wrap(faults.Reconciliation,
			"your payment was received but the order could not be recorded; support has been notified", err)
	}
	metrics.OrdersCreated.Inc()

	// Delete exactly the rows we charged for, by captured id.
	if err := s.carts.DeleteByIDs(rowIDs); err != nil {
		logger.WithCtx(ctx).Error("cart cleanup failed after checkout",
			"user_id", user.ID, "order_id", order.ID, "error", err)
	}

	logger.WithCtx(ctx).Info("checkout completed",
		"user_id", user.ID, "order_id", order.ID, "charge_id", charge.ID, "total", order.Total)
	return order, nil
}

func (s *CheckoutService) release(ctx context.Context, key string) {
	if err := s.claims.Release(ctx, key); err != nil {
		logger.WithCtx(ctx).Warn("could not release checkout claim", "key", key, "error", err)
	}
}

// quarantine records a charge that has no order. The journal write is
// the durable record; the log line and counter make it visible.
func (s *CheckoutService) quarantine(ctx context.Context, userID uint, charge *payment.Charge, cause error) {
	metrics.ReconciliationFailures.Inc()
	logger.WithCtx(ctx).Error("charge captured but order persist failed",
		"user_id", userID, "charge_id", charge.ID, "amount", charge.Amount, "error", cause)

	entry := reconcile.Entry{
		ChargeID: charge.ID,
		UserID:   userID,
		Amount:   charge.Amount,
		Currency: charge.Currency,
		Reason:   cause.Error(),
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		logger.WithCtx(ctx).Error("reconciliation journal write failed",
			"charge_id", charge.ID, "error", err)
	}
}

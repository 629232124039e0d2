// Package reconcile records charges that have no matching order.
//
// Checkout cannot wrap the payment gateway and the relational store in one
// transaction. When the charge succeeds but the order insert fails, the
// money has moved and the only honest response is to write the charge
// somewhere an operator will find it. The journal is that place: every
// entry is an orphan charge awaiting manual resolution.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Entry is one orphan charge.
type Entry struct {
	ChargeID string    `bson:"charge_id"`
	UserID   uint      `bson:"user_id"`
	Amount   int       `bson:"amount"`
	Currency string    `bson:"currency"`
	Reason   string    `bson:"reason"`
	At       time.Time `bson:"at"`
}

// Journal persists orphan charges durably.
type Journal interface {
	Record(ctx context.Context, e Entry) error
}

// ── Mongo journal ────────────────────────────────────────────────────────────

// MongoJournal writes entries to a MongoDB collection. Writes are
// synchronous: unlike log shipping, a reconciliation record must not be
// dropped under load.
type MongoJournal struct {
	col *mongo.Collection
}

// NewMongoJournal connects and prepares the reconciliation collection.
func NewMongoJournal(uri, db string) (*MongoJournal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("reconcile: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("reconcile: mongo ping: %w", err)
	}

	col := client.Database(db).Collection("orphan_charges")
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "charge_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoJournal{col: col}, nil
}

func (j *MongoJournal) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := j.col.InsertOne(ctx, e)
	if err != nil {
		return fmt.Errorf("reconcile: record charge %s: %w", e.ChargeID, err)
	}
	return nil
}

// ── Memory journal ───────────────────────────────────────────────────────────

// MemoryJournal collects entries in-process. Used in tests and as the
// fallback when Mongo is not configured; the caller additionally logs
// every entry at ERROR so nothing disappears silently.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Record(_ context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (j *MemoryJournal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

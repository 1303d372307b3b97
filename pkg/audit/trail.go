// Package audit persists the order status audit trail to MongoDB.
//
// The trail is written off the hot request path:
//
//   - Entries are enqueued into a buffered channel (non-blocking).
//   - A single background goroutine drains the channel and performs
//     InsertMany in batches.
//   - If the channel is full, the entry is dropped; auditing must never
//     block an order mutation.
//   - Graceful shutdown: call Close() to flush and disconnect.
//
// The sink is optional — when AUDIT_MONGO_URI is unset the package-level
// Record call is a no-op and order processing is unaffected.
package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	queueSize = 4096 // buffered channel capacity
	batchSize = 50   // maximum documents per InsertMany
	drainTick = 2 * time.Second
)

// Entry is one recorded order status transition.
type Entry struct {
	OrderID      uint      `bson:"order_id"`
	RestaurantID uint      `bson:"restaurant_id"`
	FromStatus   string    `bson:"from_status"`
	ToStatus     string    `bson:"to_status"`
	ActorID      uint      `bson:"actor_id"`
	At           time.Time `bson:"at"`
}

// Trail is the async Mongo-backed audit sink.
type Trail struct {
	col    *mongo.Collection
	client *mongo.Client
	queue  chan Entry
	done   chan struct{}
}

// Default is the process-wide trail; nil until Open succeeds.
var Default *Trail

// Open connects the default trail to uri/db. The caller must eventually
// call Close().
func Open(uri, db string) error {
	t, err := New(uri, db, "order_audit")
	if err != nil {
		return err
	}
	Default = t
	return nil
}

// Record enqueues an entry on the default trail. No-op when the sink is
// not configured.
func Record(e Entry) {
	if Default != nil {
		Default.Record(e)
	}
}

// Close flushes and disconnects the default trail.
func Close() {
	if Default != nil {
		Default.Close()
		Default = nil
	}
}

// New creates a Trail connected to uri/db/collection.
func New(uri, db, collection string) (*Trail, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("audit: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("audit: ping: %w", err)
	}

	col := client.Database(db).Collection(collection)

	// Index for the two query shapes the trail serves: per-order history
	// and recent activity per restaurant.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "at", Value: 1}}},
		{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "at", Value: -1}}},
	})

	t := &Trail{
		col:    col,
		client: client,
		queue:  make(chan Entry, queueSize),
		done:   make(chan struct{}),
	}

	go t.drainLoop()
	return t, nil
}

// Record enqueues an entry, dropping it when the queue is full.
func (t *Trail) Record(e Entry) {
	select {
	case t.queue <- e:
	default:
		// dropped — auditing must never block order processing
	}
}

// drainLoop runs in the background, flushing queued entries into MongoDB.
func (t *Trail) drainLoop() {
	ticker := time.NewTicker(drainTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = t.col.InsertMany(ctx, batch) // errors are intentionally ignored
		batch = batch[:0]
	}

	for {
		select {
		case e := <-t.queue:
			batch = append(batch, e)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-t.done:
			for len(t.queue) > 0 {
				batch = append(batch, <-t.queue)
			}
			flush()
			return
		}
	}
}

// Close flushes pending entries and disconnects from MongoDB.
// Safe to call multiple times.
func (t *Trail) Close() {
	select {
	case <-t.done:
	default:
		close(t.done)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = t.client.Disconnect(ctx)
}

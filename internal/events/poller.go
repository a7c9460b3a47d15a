// Package events converges the local cart when a checkout completes
// elsewhere: the checkout pipeline publishes to the checkout-outbox topic,
// and any storefront process holding state for that user empties its local
// cart and re-syncs from the server.
package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
)

// CartResetter is the slice of the cart synchronizer the poller needs.
type CartResetter interface {
	Clear()
	SyncFromServer(ctx context.Context)
}

// SessionReader tells the poller which user this process holds state for.
type SessionReader interface {
	CurrentUserID() string
}

type Poller struct {
	cart    CartResetter
	session SessionReader
	reader  *kafka.Reader
}

func NewPoller(cart CartResetter, session SessionReader, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "checkout-outbox",
		GroupID:  "storefront-state-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{cart: cart, session: session, reader: reader}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.pollOnce(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		log.Printf("error closing checkout reader: %v", err)
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("error reading checkout message: %v", err)
		}
		return
	}

	p.handleMessage(ctx, m.Value)
}

// handleMessage empties the local cart when the checkout event names the
// user this process holds state for. Events for other users are ignored;
// malformed payloads are logged and dropped.
func (p *Poller) handleMessage(ctx context.Context, payload []byte) {
	var event map[string]interface{}
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Printf("error parsing checkout message: %v", err)
		return
	}

	userID, ok := event["user_id"].(string)
	if !ok {
		log.Println("checkout message missing or invalid user_id")
		return
	}

	if userID != p.session.CurrentUserID() || userID == "" {
		return
	}

	p.cart.Clear()
	p.cart.SyncFromServer(ctx)
}

package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes events on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	nodeID  string
}

// NewNATSPublisher constructs a publisher bound to subject. nodeID tags messages so a node
// can skip its own events when mirroring the bus into its hub.
func NewNATSPublisher(conn *nats.Conn, subject, nodeID string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject, nodeID: nodeID}
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(_ context.Context, event ModerationEvent) error {
	if p == nil || p.conn == nil || p.subject == "" {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode moderation event: %w", err)
	}

	msg := nats.NewMsg(p.subject + "." + string(event.Type))
	msg.Data = payload
	msg.Header.Set("Nats-Msg-Id", event.ID)
	msg.Header.Set("X-Origin-Node", p.nodeID)
	if event.CorrelationID != "" {
		msg.Header.Set("X-Correlation-ID", event.CorrelationID)
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish to nats: %w", err)
	}
	return nil
}

// Subscribe forwards every event on the subject tree into the hub, so feeds on this node
// also see events produced by other API instances. The returned function drains the subscription.
func (p *NATSPublisher) Subscribe(hub *Hub) (func(), error) {
	if p == nil || p.conn == nil || hub == nil {
		return func() {}, nil
	}

	sub, err := p.conn.Subscribe(p.subject+".>", func(msg *nats.Msg) {
		if msg.Header.Get("X-Origin-Node") == p.nodeID {
			return
		}
		var event ModerationEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return
		}
		hub.Broadcast(event)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to nats: %w", err)
	}

	return func() { _ = sub.Drain() }, nil
}

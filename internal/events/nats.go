package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// NATSPublisher publishes events on "<prefix>.<type>" subjects.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// ConnectNATS dials the NATS server at url.
func ConnectNATS(url, subjectPrefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("group-fitness"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Infof("nats reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{conn: conn, prefix: subjectPrefix}, nil
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(eventType string) string {
	return Subject(p.prefix, eventType)
}

// Subject joins a prefix and an event type into a NATS subject.
func Subject(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := e.Encode()
	if err != nil {
		return err
	}
	return p.conn.Publish(p.Subject(e.Type), data)
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		log.Warnf("nats drain: %v", err)
	}
}

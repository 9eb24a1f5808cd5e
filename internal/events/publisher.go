package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ProductCreated  Type = "product.created"
	ProductUpdated  Type = "product.updated"
	ProductDeleted  Type = "product.deleted"
	ImportCompleted Type = "import.completed"
)

type ImportSummary struct {
	ProductsCreated  int `json:"productsCreated"`
	ProductsExisting int `json:"productsExisting"`
	VariantsInserted int `json:"variantsInserted"`
	VariantsSkipped  int `json:"variantsSkipped"`
	RowErrors        int `json:"rowErrors"`
}

type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	CompanyID string         `json:"companyId"`
	ProductID string         `json:"productId,omitempty"`
	Name      string         `json:"name,omitempty"`
	Code      *string        `json:"code,omitempty"`
	Import    *ImportSummary `json:"import,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Conn is the subset of *nats.Conn used for publishing.
type Conn interface {
	Publish(subj string, data []byte) error
}

type Publisher struct {
	conn   Conn
	prefix string
}

// NewPublisher returns a publisher that drops events when conn is nil.
func NewPublisher(conn Conn, prefix string) *Publisher {
	return &Publisher{conn: conn, prefix: prefix}
}

func (p *Publisher) Subject(t Type) string {
	return p.prefix + "." + string(t)
}

func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if p.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.Type, err)
	}

	if err := p.conn.Publish(p.Subject(event.Type), data); err != nil {
		return fmt.Errorf("publishing %s event: %w", event.Type, err)
	}
	return nil
}

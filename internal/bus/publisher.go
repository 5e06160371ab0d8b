package bus

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/zahedbri/e107/pkg/ajax"
)

// Publisher wraps rendered command batches in a signed envelope and
// publishes them on the per-action batch subject.
type Publisher struct {
	nc     *nats.Conn
	secret string // HMAC-SHA256 secret for signing batches (empty = no signing)
	logger zerolog.Logger
}

// NewPublisher creates a Publisher on an existing bus connection.
func NewPublisher(nc *nats.Conn, secret string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		nc:     nc,
		secret: secret,
		logger: logger.With().Str("component", "publisher").Logger(),
	}
}

// Publish renders commands into a Batch, signs it, and publishes it.
// The returned Batch carries the generated ID for the caller's logs.
func (p *Publisher) Publish(action, source string, commands []ajax.Command) (ajax.Batch, error) {
	b, err := ajax.NewBatch(action, source, commands)
	if err != nil {
		return ajax.Batch{}, fmt.Errorf("build batch: %w", err)
	}
	if err := ajax.SignBatch(&b, p.secret); err != nil {
		return ajax.Batch{}, fmt.Errorf("sign batch: %w", err)
	}
	data, err := json.Marshal(b)
	if err != nil {
		return ajax.Batch{}, fmt.Errorf("marshal batch: %w", err)
	}
	if err := p.nc.Publish(ajax.SubjectBatch(action), data); err != nil {
		return ajax.Batch{}, fmt.Errorf("publish batch: %w", err)
	}

	p.logger.Debug().
		Str("batch_id", b.ID).
		Str("action", action).
		Int("bytes", len(data)).
		Msg("published batch")

	return b, nil
}

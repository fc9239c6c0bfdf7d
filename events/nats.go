package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-tracker/models"
	"github.com/nats-io/nats.go"
)

const defaultSubjectPrefix = "tournaments"

type NatsConfig struct {
	URL   string
	Token string
}

// publisher is the part of *nats.Conn the publisher needs.
type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher emits a tournament-updated event per mutation.
type NATSPublisher struct {
	conn   publisher
	prefix string
	logger *slog.Logger
}

// Connect dials NATS with the token when one is configured.
func Connect(cfg NatsConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("tournament-tracker"),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}
	return conn, nil
}

func NewNATSPublisher(conn publisher, prefix string, logger *slog.Logger) *NATSPublisher {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		prefix = defaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{conn: conn, prefix: prefix, logger: logger}
}

// Subject is <prefix>.<customer_id>.updated.
func (p *NATSPublisher) Subject(customerID string) string {
	return p.prefix + "." + sanitizeToken(customerID) + ".updated"
}

// TournamentUpdated implements services.TournamentNotifier. Errors are logged.
func (p *NATSPublisher) TournamentUpdated(ctx context.Context, t *models.Tournament) {
	data, err := json.Marshal(t)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal tournament event", slog.Any("error", err))
		return
	}
	subject := p.Subject(t.CustomerID)
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.WarnContext(ctx, "failed to publish tournament event",
			slog.String("subject", subject), slog.Any("error", err))
	}
}

// sanitizeToken keeps a subject token free of NATS separators and wildcards.
func sanitizeToken(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, s)
}

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/Dosada05/tournament-tracker/models"
)

// ResultArchiver uploads a JSON snapshot of a finished tournament.
type ResultArchiver struct {
	uploader FileUploader
	logger   *slog.Logger
}

func NewResultArchiver(uploader FileUploader, logger *slog.Logger) *ResultArchiver {
	return &ResultArchiver{uploader: uploader, logger: logger}
}

// ArchiveKey is tournaments/<customer_id>/<id>.json. The customer id always
// stays a single key segment.
func ArchiveKey(t *models.Tournament) string {
	return fmt.Sprintf("tournaments/%s/%s.json", keySegment(t.CustomerID), t.ID)
}

func keySegment(s string) string {
	escaped := url.PathEscape(s)
	switch escaped {
	case "", ".", "..":
		return "_"
	}
	return escaped
}

func (a *ResultArchiver) ArchiveTournament(ctx context.Context, t *models.Tournament) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament %s: %w", t.ID, err)
	}
	res, err := a.uploader.Upload(ctx, ArchiveKey(t), "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	if a.logger != nil {
		a.logger.InfoContext(ctx, "tournament archived",
			slog.String("key", res.Key), slog.String("location", res.Location))
	}
	return nil
}

package service

import (
	"context"
	"log/slog"

	"dossierportal-backend/models"
)

// Notifier tells dossier owners about lifecycle events
type Notifier interface {
	DossierStatusChanged(ctx context.Context, d *models.Dossier, from, to models.Statut) error
}

// LogNotifier writes notifications to the log instead of sending them
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier backed by logger
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) DossierStatusChanged(ctx context.Context, d *models.Dossier, from, to models.Statut) error {
	n.logger.InfoContext(ctx, "dossier status changed",
		slog.String("dossier_id", d.ID.String()),
		slog.String("owner_id", d.UserID.String()),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	return nil
}

package notify

import (
	"context"
	"log/slog"

	"github.com/kwhalen/internwatch/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes the change report to the logger instead of sending an
// SMS. Used by `check` and in development.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs the report via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the report. The returned message id is empty: there is no
// provider behind this notifier.
func (n *LogNotifier) Notify(_ context.Context, body string) (string, error) {
	n.logger.Info("change report", "report", body)
	return "", nil
}

// SendTestMessage sends a fixed body to verify the notifier's wiring and
// credentials end to end.
func SendTestMessage(ctx context.Context, n model.Notifier) (string, error) {
	return n.Notify(ctx, "New positions: \n\ninternwatch test notification")
}

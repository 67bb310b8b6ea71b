package notifier

import (
	"log/slog"

	"github.com/amishk599/jobscout/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes alerts to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each alert via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the decision line, then each qualifying posting.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(d model.Decision) error {
	n.logger.Info(d.Message(), "kind", d.Kind.String(), "found", d.Found, "threshold", d.Threshold)
	for _, p := range d.Qualifying {
		n.logger.Info("qualifying posting",
			"score", p.Score,
			"new", p.IsNew,
			"company", p.Company,
			"title", p.Title,
			"location", p.Location,
			"url", p.Link,
		)
	}
	return nil
}

package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/amishk599/jobscout/internal/config"
)

// Backend persists the history blob: one link per line, in insertion order.
// Load of a history that does not exist yet returns "" and no error.
type Backend interface {
	Load(ctx context.Context) (string, error)
	Append(ctx context.Context, links []string) error
	Close() error
}

// Open creates the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.HistoryConfig) (Backend, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileBackend(cfg.Path), nil
	case "sqlite":
		return NewSQLiteBackend(cfg.Path)
	case "redis":
		return NewRedisBackend(ctx, cfg.RedisURL, cfg.RedisKey)
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}

func joinLines(links []string) string {
	if len(links) == 0 {
		return ""
	}
	return strings.Join(links, "\n") + "\n"
}

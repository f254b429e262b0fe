// Package cmd provides the provider constructors shared by the command
// entrypoints: pick a persistence backend and an event bus from configuration.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chatflowhq/chatflow/pkg/persistence"
	"github.com/chatflowhq/chatflow/pkg/persistence/file"
	"github.com/chatflowhq/chatflow/pkg/persistence/postgresql"
)

// NewPersistence picks the persistence backend from the database URL scheme.
// "postgres://" and "postgresql://" select PostgreSQL; anything else is
// treated as a file path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch parsePersistenceProvider(databaseURL) {
	case "postgresql":
		postgres, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create PostgreSQL persistence: %w", err))
		}

		return postgres
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	if scheme == "postgres" || scheme == "postgresql" {
		return "postgresql"
	}

	return "file"
}

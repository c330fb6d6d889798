package export

import (
	"context"

	"caixa/internal/core"
)

// Ports for outbound export adapters.
type (
	MovementAppender interface {
		Append(ctx context.Context, m core.Movement) (rowRef string, err error)
	}

	MovementRemover interface {
		Remove(ctx context.Context, id string) error
	}

	// MovementExporter is what the sync worker needs from an adapter.
	MovementExporter interface {
		MovementAppender
		MovementRemover
	}
)

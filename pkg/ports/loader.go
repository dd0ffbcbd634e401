package ports

import "context"

// DescriptionLoader defines how the compiler retrieves FSM descriptions.
// Names are opaque to the loader; their extension selects the description format.
type DescriptionLoader interface {
	// GetDescription returns the raw description stored under name.
	// It returns an error wrapping domain.ErrDescriptionNotFound if there is none.
	GetDescription(ctx context.Context, name string) ([]byte, error)

	// ListDescriptions returns the names of every available description, sorted.
	ListDescriptions(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that receives the name of each description that changed.
	Watch(ctx context.Context) (<-chan string, error)
}

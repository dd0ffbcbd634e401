package ports

import "context"

// DescriptionStore is a DescriptionLoader that accepts new descriptions.
type DescriptionStore interface {
	DescriptionLoader

	// SaveDescription stores data under name, replacing any previous description.
	SaveDescription(ctx context.Context, name string, data []byte) error

	// DeleteDescription removes the description. Deleting a missing name is not an error.
	DeleteDescription(ctx context.Context, name string) error
}

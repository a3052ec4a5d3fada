// Package projection pairs aggregates with the persistence metadata adapters attach to them.
package projection

import "time"

// Metadata captures persistence timestamps shared by projections.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Projection is an aggregate view plus persistence metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// New wraps entity with the given timestamps.
func New[T any](entity T, createdAt, updatedAt time.Time) *Projection[T] {
	return &Projection[T]{
		Entity:   entity,
		Metadata: Metadata{CreatedAt: createdAt, UpdatedAt: updatedAt},
	}
}

// Entities strips metadata from a projection list.
func Entities[T any](list []*Projection[T]) []T {
	out := make([]T, 0, len(list))
	for _, p := range list {
		if p == nil {
			continue
		}
		out = append(out, p.Entity)
	}
	return out
}

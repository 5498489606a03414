package memory

import "context"

// LocationRepository serves the fixed location catalog. The catalog never
// changes at runtime, so reads need no locking.
type LocationRepository struct {
	keys []string
}

func NewLocationRepository(keys []string) *LocationRepository {
	return &LocationRepository{keys: append([]string(nil), keys...)}
}

func (r *LocationRepository) ListKeys(_ context.Context) ([]string, error) {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out, nil
}

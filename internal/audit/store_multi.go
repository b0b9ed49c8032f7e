package audit

import (
	"context"
	"errors"
)

// MultiStore fans each event out to several sinks. Reads come from the first
// store, so put the queryable store first and write-only sinks after it.
type MultiStore struct {
	stores []Store
}

func NewMultiStore(stores ...Store) *MultiStore {
	return &MultiStore{stores: stores}
}

func (m *MultiStore) Append(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range m.stores {
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiStore) ListByEntity(ctx context.Context, entity, entityID string) ([]Event, error) {
	if len(m.stores) == 0 {
		return nil, nil
	}
	return m.stores[0].ListByEntity(ctx, entity, entityID)
}

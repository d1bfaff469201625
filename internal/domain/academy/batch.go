package academy

import (
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
)

// Batch groups courses under a session, e.g. "HSC 2026"
type Batch struct {
	shared.BaseAggregateRoot
	Name string
}

// NewBatch creates a new batch
func NewBatch(name string) (*Batch, error) {
	if err := validateName(name, "Batch"); err != nil {
		return nil, err
	}

	batch := &Batch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}

	return batch, nil
}

// Rename updates the batch name
func (b *Batch) Rename(name string) error {
	if err := validateName(name, "Batch"); err != nil {
		return err
	}

	b.Name = name
	b.Touch()
	b.IncrementVersion()

	return nil
}

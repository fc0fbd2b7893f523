package workplace

import (
	"context"
	"errors"
)

var ErrWorkplaceNotFound = errors.New("workplace not found")

// Workplace is a read-only snapshot from the workplace directory.
type Workplace struct {
	ID   string
	Name string
}

type WorkplaceRepository interface {
	GetByID(ctx context.Context, id string) (Workplace, error)
	List(ctx context.Context) ([]Workplace, error)
}

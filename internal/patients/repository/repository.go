package repository

import (
	"context"
	"errors"

	"github.com/careconnect/careconnect/server/internal/patients"
)

var ErrNotFound = errors.New("patient not found")

// Repository provides patient record persistence operations.
type Repository interface {
	Create(ctx context.Context, p *patients.Patient) (string, error)
	GetByUserID(ctx context.Context, userID string) (*patients.Patient, error)
	List(ctx context.Context) ([]*patients.Patient, error)
}

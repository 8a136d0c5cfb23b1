package state

import (
	"context"

	"github.com/google/uuid"
)

// State is one node of the workflow. Final states accept no further
// transitions; the cancel flag marks the state a requester self-cancel
// lands in.
type State struct {
	ID        uint
	TenantID  uuid.UUID
	Name      string
	IsFinal   bool
	IsCancel  bool
	SortOrder int
}

type Repository interface {
	GetAll(ctx context.Context) ([]*State, error)
	GetByID(ctx context.Context, id uint) (*State, error)
	GetCancelState(ctx context.Context) (*State, error)
}

package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a training does not exist.
var ErrNotFound = errors.New("not found")

// Training is the persisted record around one training's content payload.
type Training struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Title     string    `json:"title"`
	Document  *Document `json:"document"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TrainingSummary is a Training without its content payload.
type TrainingSummary struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TrainingStore is the persistence collaborator. It receives whole
// documents on save and hands them back on open.
type TrainingStore interface {
	GetTraining(ctx context.Context, id string) (*Training, error)
	SaveTraining(ctx context.Context, t *Training) error
	ListTrainings(ctx context.Context, companyID string) ([]TrainingSummary, error)
	Close() error
}

// Principal identifies the user an editing session is opened for.
type Principal struct {
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
	Role      string `json:"role"`
}

// CapabilityChecker answers entitlement questions about a principal.
type CapabilityChecker interface {
	RewriteEnabled(ctx context.Context, p Principal) (bool, error)
}

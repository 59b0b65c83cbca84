package service

import (
	"context"

	"trainings/internal/domain"
)

// CapabilityFunc adapts a function to domain.CapabilityChecker.
type CapabilityFunc func(ctx context.Context, p domain.Principal) (bool, error)

func (f CapabilityFunc) RewriteEnabled(ctx context.Context, p domain.Principal) (bool, error) {
	return f(ctx, p)
}

// StaticCapability grants or denies rewrite assistance to everyone.
type StaticCapability bool

func (c StaticCapability) RewriteEnabled(context.Context, domain.Principal) (bool, error) {
	return bool(c), nil
}

package currentstate

import (
	"context"

	"ads-reconciler/core/resolver"

	"go.uber.org/zap"
)

// ResolveRequest is the body of a resolve call.
type ResolveRequest struct {
	Actions []resolver.MutationAction `json:"actions"`
}

// Service resolves mutation actions.
type Service struct {
	resolver *resolver.Resolver
	logger   *zap.Logger
}

// NewService creates a Service.
func NewService(r *resolver.Resolver, logger *zap.Logger) *Service {
	return &Service{resolver: r, logger: logger}
}

// Resolve returns the current state of the entities the actions touch.
func (s *Service) Resolve(ctx context.Context, actions []resolver.MutationAction) (*resolver.CurrentEntitySnapshot, error) {
	return s.resolver.Resolve(ctx, actions)
}

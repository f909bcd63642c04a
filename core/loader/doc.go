// Package loader provides the feature loading system of the HTTP server.
//
// Each feature implements Feature and registers its own routes:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager keeps the registry. Register adds a feature and LoadAll loads the
// enabled ones in registration order. The reconciliation and current state
// features are registered this way by the start command.
package loader

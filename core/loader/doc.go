// Package loader provides the feature loading system of the status API.
//
// Each feature implements the Feature interface, which exposes its name,
// whether it is enabled and its route registration.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registered features and loads the enabled ones with LoadAll().
package loader

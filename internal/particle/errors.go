package particle

import "errors"

// Domain errors for the particle package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, particle.ErrInvalidConfig) {
//	    // reject the activation
//	}
var (
	// ErrInvalidSpec is returned when a generator spec cannot produce particles.
	ErrInvalidSpec = errors.New("particle: invalid spec")

	// ErrInvalidConfig is returned when a pool configuration is inconsistent.
	ErrInvalidConfig = errors.New("particle: invalid pool config")
)

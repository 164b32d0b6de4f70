package effect

import "errors"

// ErrUnknownEffect is returned for names outside the catalog.
var ErrUnknownEffect = errors.New("effect: unknown effect")

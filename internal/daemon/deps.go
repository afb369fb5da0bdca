// SPDX-License-Identifier: MIT

package daemon

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Deps are the collaborators a Manager serves.
type Deps struct {
	// Logger must be enabled; a zerolog.Nop logger is rejected.
	Logger zerolog.Logger
	// APIHandler serves JSON-RPC, the agent card and artifacts.
	APIHandler http.Handler
	// MetricsHandler and MetricsAddr start the metrics server only when
	// both are set.
	MetricsHandler http.Handler
	MetricsAddr    string
}

// Validate reports the first missing dependency.
func (d *Deps) Validate() error {
	switch {
	case d.Logger.GetLevel() == zerolog.Disabled:
		return ErrMissingLogger
	case d.APIHandler == nil:
		return ErrMissingAPIHandler
	}
	return nil
}

package driver

import (
	"github.com/google/uuid"

	"github.com/dd0wney/infodemic/pkg/logging"
	"github.com/dd0wney/infodemic/pkg/metrics"
)

// Options are shared by every driver entry point.
type Options struct {
	// RunID tags outputs and log lines; a random UUID when empty
	RunID   string
	Logger  logging.Logger
	Metrics *metrics.Registry
}

func (o Options) withDefaults() Options {
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
	o.Logger = logging.OrNop(o.Logger).With(logging.RunID(o.RunID))
	return o
}

package stripegw

import (
	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v82"
)

// leveledLogger routes Stripe SDK log lines into zerolog. The SDK logs its
// own request lines at info, so they are demoted to debug.
type leveledLogger struct {
	log zerolog.Logger
}

var _ stripe.LeveledLoggerInterface = leveledLogger{}

func (l leveledLogger) Debugf(format string, v ...interface{}) { l.log.Debug().Msgf(format, v...) }
func (l leveledLogger) Infof(format string, v ...interface{})  { l.log.Debug().Msgf(format, v...) }
func (l leveledLogger) Warnf(format string, v ...interface{})  { l.log.Warn().Msgf(format, v...) }
func (l leveledLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }

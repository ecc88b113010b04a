// Package cleanup holds helpers for releasing resources in defer statements.
package cleanup

import (
	"io"

	"github.com/rs/zerolog"
)

// DeferClose closes closer and logs a failure at warn level instead of
// dropping it.
func DeferClose(logger zerolog.Logger, closer io.Closer, msg string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn().Err(err).Msg(msg)
	}
}

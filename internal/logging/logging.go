package logging

import (
	"go.uber.org/zap"
)

// New builds the application logger. Debug mode uses zap's development config
// (console encoder, debug level); otherwise the production config writes JSON at info level.
func New(debug bool) (*zap.SugaredLogger, error) {
	var z *zap.Logger
	var err error

	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}

// Nop returns a logger that discards everything (useful for testing)
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

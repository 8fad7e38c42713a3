package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger: human-readable in development, JSON
// otherwise. The result also becomes zap's global logger.
func New(production bool) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if production {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

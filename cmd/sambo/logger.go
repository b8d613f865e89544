package main

import (
	"go.uber.org/zap"
)

// newLogger builds a production JSON logger at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	config := zap.NewProductionConfig()
	config.Level = lvl
	return config.Build()
}

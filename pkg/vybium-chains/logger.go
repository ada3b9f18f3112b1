package vybiumchains

import (
	"go.uber.org/zap"

	"github.com/vybium/vybium-chains/internal/vybium-chains/utils"
)

// NewLogger builds the console logger used by the command line tools.
// Unknown levels fall back to info.
func NewLogger(level string) *zap.Logger {
	return utils.NewLogger(level)
}

package simulator

import (
	"context"
	"log/slog"
	"strings"

	"pPIMulator/src/misc"
)

type Platform interface {
	Init(config *misc.Config, logger *slog.Logger) error
	Run(ctx context.Context, paths []string) ([]Report, error)
	Fini()
}

func newPlatformForConfig(config *misc.Config) Platform {
	if strings.TrimSpace(config.SimulatorBinary) != "" {
		return new(ExternalPlatform)
	}
	return new(ReferencePlatform)
}

package simulator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"pPIMulator/src/misc"
)

type Simulator struct {
	logger   *slog.Logger
	platform Platform
}

func (this *Simulator) Init(config *misc.Config, logger *slog.Logger) error {
	if config == nil {
		return errors.New("simulator: nil config")
	}
	if logger == nil {
		logger = misc.DiscardLogger()
	}
	this.logger = logger.With("component", "simulator")

	platform := newPlatformForConfig(config)
	if err := platform.Init(config, this.logger); err != nil {
		return err
	}

	this.platform = platform
	return nil
}

// Run simulates every program file and tags each report with a fresh run id.
func (this *Simulator) Run(ctx context.Context, paths ...string) ([]Report, error) {
	if this.platform == nil {
		return nil, errors.New("simulator: not initialized")
	}
	if len(paths) == 0 {
		return nil, errors.New("simulator: no program files")
	}

	reports, err := this.platform.Run(ctx, paths)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		reports[i].RunID = uuid.NewString()
		this.logger.Info("simulation finished",
			"run_id", reports[i].RunID,
			"file", reports[i].File,
			"cycles", reports[i].TotalCycles,
			"sequential_us", reports[i].SequentialTimeUs)
	}
	return reports, nil
}

func (this *Simulator) Fini() {
	if this.platform != nil {
		this.platform.Fini()
	}
}

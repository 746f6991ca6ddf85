package simulator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"pPIMulator/src/misc"
)

const binaryEnvOverride = "PPIM_SIMULATOR"

// ErrNoBinary is returned when no simulator executable can be located.
var ErrNoBinary = errors.New("pPIM simulator binary not found")

// ExternalPlatform runs the pPIM simulator executable and parses its stdout.
type ExternalPlatform struct {
	logger     *slog.Logger
	binaryPath string
	timeout    time.Duration
}

func (this *ExternalPlatform) Init(config *misc.Config, logger *slog.Logger) error {
	binaryPath, err := locateExecutable(config.SimulatorBinary)
	if err != nil {
		return err
	}

	this.logger = logger
	this.binaryPath = binaryPath
	if config.SimulatorTimeoutMs > 0 {
		this.timeout = time.Duration(config.SimulatorTimeoutMs) * time.Millisecond
	}
	return nil
}

func (this *ExternalPlatform) Run(ctx context.Context, paths []string) ([]Report, error) {
	if this.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, this.timeout)
		defer cancel()
	}

	command := exec.CommandContext(ctx, this.binaryPath, paths...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	this.logger.Debug("starting simulator", "binary", this.binaryPath, "files", len(paths))
	if err := command.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("pPIM simulator: %w", ctxErr)
		}
		return nil, annotateWithNoise(fmt.Errorf("pPIM simulator: %w", err), stderr.String())
	}

	reports, err := ParseReports(&stdout)
	if err != nil {
		return nil, annotateWithNoise(err, stderr.String())
	}
	return reports, nil
}

func (this *ExternalPlatform) Fini() {}

func annotateWithNoise(err error, noise string) error {
	noise = strings.TrimSpace(noise)
	if err == nil || noise == "" {
		return err
	}
	lines := strings.Split(noise, "\n")
	if len(lines) > 8 {
		lines = lines[:8]
	}
	return fmt.Errorf("%w (simulator stderr: %s)", err, strings.Join(lines, "; "))
}

func locateExecutable(binaryPath string) (string, error) {
	if override := strings.TrimSpace(os.Getenv(binaryEnvOverride)); override != "" {
		if existsAndExecutable(override) {
			return override, nil
		}
		return "", fmt.Errorf("%w: override %s", ErrNoBinary, override)
	}

	if strings.TrimSpace(binaryPath) != "" {
		if existsAndExecutable(binaryPath) {
			if resolved, err := filepath.Abs(binaryPath); err == nil {
				return resolved, nil
			}
			return binaryPath, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNoBinary, binaryPath)
	}

	candidates := make([]string, 0, 16)
	if wd, err := os.Getwd(); err == nil {
		for dir := wd; ; {
			candidates = append(candidates,
				filepath.Join(dir, "pim_simulator"),
				filepath.Join(dir, "build", "pim_simulator"),
			)
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	for _, candidate := range candidates {
		if existsAndExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w; set %s to override", ErrNoBinary, binaryEnvOverride)
}

func existsAndExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Mode()&0o111 != 0
}

package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
)

// candidates are probed in order when no engine is configured.
var candidates = []string{"espeak-ng", "espeak", "say", "flite"}

// Engine speaks text through a local synthesis program (espeak-ng, espeak,
// say or flite), which plays through the default output device. Speak blocks
// until playback has finished. The engine binary is resolved lazily; a
// successful resolution is cached, a failed one is retried on the next
// Speak so an engine installed later gets picked up without a restart.
type Engine struct {
	command string
	rate    int
	logger  *slog.Logger

	mu     sync.Mutex
	binary string
}

// NewEngine creates a speech engine. command may be empty to probe the PATH,
// a bare engine name, or an absolute path. rate is words per minute.
func NewEngine(command string, rate int, logger *slog.Logger) *Engine {
	if rate <= 0 {
		rate = 160
	}
	return &Engine{
		command: command,
		rate:    rate,
		logger:  logger,
	}
}

func (e *Engine) Name() string {
	if e.command != "" {
		return filepath.Base(e.command)
	}
	return "auto"
}

func (e *Engine) Speak(ctx context.Context, text string) error {
	binary, err := e.resolve()
	if err != nil {
		return err
	}

	args := argsFor(filepath.Base(binary), e.rate, text)
	cmd := exec.CommandContext(ctx, binary, args...)

	e.logger.Debug("speaking", "engine", filepath.Base(binary), "chars", len(text))

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("speech engine %s: %w: %s", filepath.Base(binary), err, out)
	}
	return nil
}

func (e *Engine) resolve() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.binary != "" {
		return e.binary, nil
	}

	if e.command != "" {
		path, err := exec.LookPath(e.command)
		if err != nil {
			return "", fmt.Errorf("speech engine %q not found: %w", e.command, err)
		}
		e.binary = path
		return path, nil
	}

	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			e.binary = path
			e.logger.Info("speech engine resolved", "engine", name)
			return path, nil
		}
	}
	return "", fmt.Errorf("no speech engine found on PATH (tried %v)", candidates)
}

// argsFor builds the invocation for a known engine. Unknown engines get the
// text as sole argument.
func argsFor(engine string, rate int, text string) []string {
	switch engine {
	case "espeak", "espeak-ng":
		return []string{"-s", strconv.Itoa(rate), text}
	case "say":
		return []string{"-r", strconv.Itoa(rate), text}
	case "flite":
		return []string{"-t", text}
	default:
		return []string{text}
	}
}

// Package ytdlp drives the yt-dlp executable for metadata probes and transfers.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"github.com/alessio/shellescape"
	"github.com/datallboy/gotube/internal/domain"
)

// Logger receives the command lines and any untemplated engine output.
type Logger interface {
	Debug(format string, v ...any)
}

type CLI struct {
	BinaryPath string
	NodePath   string
	Log        Logger
}

// NewCLI looks up yt-dlp on PATH. nodePath may be empty.
func NewCLI(nodePath string, log Logger) (*CLI, error) {
	path, err := exec.LookPath(BinaryName)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp binary not found in PATH: %w", err)
	}
	return &CLI{BinaryPath: path, NodePath: nodePath, Log: log}, nil
}

// Probe fetches metadata only. Failures are classified so callers can test
// them with errors.Is against domain.ErrPrivate and domain.ErrAuthRequired.
func (c *CLI) Probe(ctx context.Context, req domain.ProbeRequest) (*domain.MediaInfo, error) {
	args := c.probeArgs(req)
	c.debugCommand(args)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.BinaryPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	detach(cmd)

	if err := cmd.Run(); err != nil {
		return nil, Classify(exitError(err, stderr.String()))
	}

	var info domain.MediaInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("failed to decode yt-dlp metadata: %w", err)
	}
	return &info, nil
}

// Download runs one transfer to completion, reporting templated progress
// lines to onProgress. A non-zero exit returns an *ExitError wrapped in
// domain.ErrTransfer.
func (c *CLI) Download(ctx context.Context, req domain.TransferRequest, onProgress func(domain.Progress)) error {
	args := c.downloadArgs(req)
	c.debugCommand(args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.BinaryPath, args...)
	cmd.Stderr = &stderr
	detach(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start yt-dlp: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if p, ok := ParseProgressLine(line); ok {
			if onProgress != nil {
				onProgress(p)
			}
			continue
		}
		if c.Log != nil && line != "" {
			c.Log.Debug("yt-dlp: %s", line)
		}
	}

	// Wait closes the pipe, so the scanner error is only read after the process exits
	waitErr := cmd.Wait()
	if waitErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransfer, exitError(waitErr, stderr.String()))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: reading output: %w", domain.ErrTransfer, err)
	}
	return nil
}

func (c *CLI) debugCommand(args []string) {
	if c.Log == nil {
		return
	}
	c.Log.Debug("exec: %s", shellescape.QuoteCommand(append([]string{c.BinaryPath}, args...)))
}

// exitError converts an *exec.ExitError into an *ExitError carrying stderr.
func exitError(err error, stderr string) error {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Code: ee.ExitCode(), Stderr: stderr}
	}
	return err
}

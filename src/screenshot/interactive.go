package screenshot

import (
	"bytes"
	"context"
	"log"
	"os/exec"
	"strings"

	"github.com/go-faster/errors"
)

const DefaultCommand = "/usr/sbin/screencapture"

// Interactive drives the macOS screencapture tool in interactive selection mode.
// The user drags a region (or presses Escape to cancel); the tool writes the
// region to the given path and exits.
type Interactive struct {
	Command string
	// Args builds the argument list for path.
	Args func(path string) []string
}

func NewInteractive(command string) Interactive {
	if command == "" {
		command = DefaultCommand
	}
	return Interactive{Command: command, Args: interactiveArgs}
}

// -i interactive selection, -x no sound.
func interactiveArgs(path string) []string {
	return []string{"-i", "-x", path}
}

func (c Interactive) Capture(ctx context.Context, path string) error {
	args := c.Args
	if args == nil {
		args = interactiveArgs
	}

	cmd := exec.CommandContext(ctx, c.Command, args(path)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.Printf("screenshot: starting %s %s", c.Command, strings.Join(cmd.Args[1:], " "))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.Wrapf(err, "%s: %s", c.Command, msg)
		}
		return errors.Wrap(err, c.Command)
	}
	return nil
}

package reminder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/fatih/color"
)

var ErrUnsupportedPlatform = errors.New("desktop notifications are not supported on this platform")

type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// ConsoleNotifier prints notifications to a terminal.
type ConsoleNotifier struct {
	out         io.Writer
	title       *color.Color
	celebration *color.Color
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:         out,
		title:       color.New(color.FgYellow, color.Bold),
		celebration: color.New(color.FgGreen, color.Bold),
	}
}

func (n *ConsoleNotifier) Notify(_ context.Context, notification Notification) error {
	title := n.title
	if notification.Kind == KindCelebration {
		title = n.celebration
	}
	if _, err := title.Fprintln(n.out, notification.Title); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	if _, err := fmt.Fprintln(n.out, notification.Message); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

// CommandRunner runs an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// DesktopNotifier shows notifications with notify-send on Linux and osascript on macOS.
type DesktopNotifier struct {
	goos string
	run  CommandRunner
}

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{
		goos: runtime.GOOS,
		run:  runCommand,
	}
}

func (n *DesktopNotifier) Notify(ctx context.Context, notification Notification) error {
	var name string
	var args []string
	switch n.goos {
	case "linux":
		name = "notify-send"
		args = []string{notification.Title, notification.Message, "--app-name=studytracker"}
	case "darwin":
		name = "osascript"
		args = []string{"-e", fmt.Sprintf("display notification %s with title %s sound name %s",
			strconv.Quote(notification.Message),
			strconv.Quote(notification.Title),
			strconv.Quote("Ping"),
		)}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, n.goos)
	}
	if err := n.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%s > %w", name, err)
	}
	return nil
}

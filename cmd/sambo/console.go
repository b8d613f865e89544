package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chris/sambo/internal/reply"
	"github.com/chris/sambo/internal/tracker"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Log commands from the terminal",
	Long: `Reads commands from the terminal and prints the replies. When stdin is a
pipe, every line is one command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		stat, _ := os.Stdin.Stat()
		isPipe := (stat.Mode() & os.ModeCharDevice) == 0
		if isPipe {
			return runPipe(ctx, a.tracker, os.Stdin, os.Stdout)
		}
		return runREPL(ctx, a.tracker)
	},
}

// consoleSender prints replies; images are shown as their path.
type consoleSender struct {
	w io.Writer
}

func (s consoleSender) SendText(_ context.Context, _, text string) error {
	_, err := fmt.Fprintln(s.w, text)
	return err
}

func (s consoleSender) SendImage(_ context.Context, _, path string) error {
	_, err := fmt.Fprintf(s.w, "[image: %s]\n", path)
	return err
}

type handler interface {
	Handle(ctx context.Context, text string) tracker.Result
}

func handleLine(ctx context.Context, h handler, out io.Writer, line string) error {
	res := h.Handle(ctx, line)
	return reply.Deliver(ctx, consoleSender{w: out}, "console", res.Payload).Err()
}

func runPipe(ctx context.Context, h handler, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := handleLine(ctx, h, out, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func runREPL(ctx context.Context, h handler) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sambo> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("starting console: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := handleLine(ctx, h, rl.Stdout(), line); err != nil {
			fmt.Fprintf(rl.Stderr(), "error: %v\n", err)
		}
	}
}

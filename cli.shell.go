package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	WelcomeMessage = "Welcome to your library!"
	UnknownMessage = "unknown command: type `help` to display available commands"
)

// Shell is the read-eval-print loop driving one catalog.
type Shell struct {
	logger   *zap.Logger
	config   *ShellConfig
	catalog  CatalogProvider
	in       io.Reader
	out      io.Writer
	commands []command
	index    map[string]command
}

// NewShell provides a shell reading commands from in and writing results to out.
func NewShell(logger *zap.Logger, config *ShellConfig, catalog CatalogProvider, in io.Reader, out io.Writer) *Shell {
	sh := &Shell{
		logger:   logger,
		config:   config,
		catalog:  catalog,
		in:       in,
		out:      out,
		commands: commands(),
		index:    make(map[string]command),
	}
	for _, cmd := range sh.commands {
		sh.index[cmd.action] = cmd
	}
	return sh
}

// Run prompts and executes lines until quit, end of input or context cancellation.
func (sh *Shell) Run(ctx context.Context) error {
	if !sh.config.NoBanner {
		sh.write(WelcomeMessage)
	}

	lines := make(chan []byte)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go sh.scan(done, lines, errc)

	for {
		fmt.Fprint(sh.out, sh.config.Prompt)
		select {
		case <-ctx.Done():
			sh.write("")
			sh.logger.Info("shell: session interrupted", zap.Error(ctx.Err()))
			return nil
		case line, ok := <-lines:
			if !ok {
				sh.write("")
				err := <-errc
				if err != nil {
					return fmt.Errorf("shell: failed to read input: %w", err)
				}
				sh.logger.Info("shell: end of input")
				return nil
			}
			if quit := sh.Execute(ctx, line); quit {
				sh.logger.Info("shell: quit requested")
				return nil
			}
		}
	}
}

// scan forwards every input line until the input ends or the loop is done.
// Lines have no length limit. It reports the reading outcome on errc before
// closing lines.
func (sh *Shell) scan(done <-chan struct{}, lines chan<- []byte, errc chan<- error) {
	defer close(lines)
	reader := bufio.NewReader(sh.in)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))
			select {
			case lines <- line:
			case <-done:
				errc <- nil
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			errc <- err
			return
		}
	}
}

// Execute parses and applies a single line. It reports whether the session should end.
func (sh *Shell) Execute(ctx context.Context, line []byte) bool {
	req, err := ParseInput(line)
	if err != nil {
		sh.fail(req, err)
		return false
	}
	if req.Action == "" && len(req.Params) == 0 {
		return false
	}

	cmd, found := sh.index[req.Action]
	if !found {
		sh.logger.Debug("shell: unknown command", zap.String("action", req.Action))
		sh.write(UnknownMessage)
		return false
	}

	err = cmd.run(ctx, sh, req)
	if errors.Is(err, errQuit) {
		return true
	}
	if err != nil {
		sh.fail(req, err)
		return false
	}
	sh.logger.Debug("shell: command executed", zap.String("action", req.Action), zap.Strings("params", req.Params))
	return false
}

// show writes the rendered books or the empty message when nothing matches.
func (sh *Shell) show(ctx context.Context, empty string, opts ...FilterOption) error {
	lines, err := sh.catalog.ListFiltered(ctx, opts...)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		sh.write(empty)
		return nil
	}
	for _, line := range lines {
		sh.write(line)
	}
	return nil
}

func (sh *Shell) help() {
	sh.write("available commands are:")
	for _, cmd := range sh.commands {
		sh.write("")
		sh.write(cmd.usage)
		sh.write("\t" + cmd.summary)
	}
}

// fail reports the error to the user. Rejected requests are expected
// and logged quietly, anything else comes from the storage backend.
func (sh *Shell) fail(req Request, err error) {
	sh.write("error: " + err.Error())
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrDuplicateKey),
		errors.Is(err, ErrNotFound):
		sh.logger.Info("shell: command rejected", zap.String("action", req.Action), zap.Error(err))
	default:
		sh.logger.Error("shell: command failed", zap.String("action", req.Action), zap.Error(err))
	}
}

func (sh *Shell) write(txt string) {
	fmt.Fprintln(sh.out, txt)
}

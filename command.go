package argclass

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/isobit/argclass/argparse"
)

// ExitCoder is implemented by errors that carry a process exit code.
type ExitCoder interface {
	ExitCode() int
}

type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func (e exitStatus) ExitCode() int { return int(e) }

// Exit returns an error that makes Main exit with code without printing
// anything. Exit(0) is a successful run.
func Exit(code int) error {
	return exitStatus(code)
}

// Parse resets o, parses args into it and binds the result. A failed parse
// or a help request returns an *argparse.ExitError; the fields of o are then
// left unbound.
func (o *Options) Parse(args []string, opts ...ParserOption) error {
	p, err := NewParser(o, append([]ParserOption{Reset()}, opts...)...)
	if err != nil {
		return err
	}
	ns, err := p.ParseArgs(args)
	if err != nil {
		return err
	}
	o.BindParsed(ns)
	return nil
}

type mainConfig struct {
	parseOnly    bool
	returnErrors bool
	ctx          context.Context
	out          io.Writer
	errOut       io.Writer
	exit         func(int)
	parserOpts   []ParserOption
}

type MainOption func(cfg *mainConfig)

// ParseOnly makes Main stop after parsing and return the parse status.
func ParseOnly() MainOption {
	return func(cfg *mainConfig) { cfg.parseOnly = true }
}

// ReturnErrors makes Main return its status instead of exiting.
func ReturnErrors() MainOption {
	return func(cfg *mainConfig) { cfg.returnErrors = true }
}

// WithContext sets the parent of the context passed to the run function.
func WithContext(ctx context.Context) MainOption {
	return func(cfg *mainConfig) { cfg.ctx = ctx }
}

func WithStdout(w io.Writer) MainOption {
	return func(cfg *mainConfig) { cfg.out = w }
}

func WithStderr(w io.Writer) MainOption {
	return func(cfg *mainConfig) { cfg.errOut = w }
}

// WithExit replaces os.Exit.
func WithExit(exit func(int)) MainOption {
	return func(cfg *mainConfig) { cfg.exit = exit }
}

func WithParserOptions(opts ...ParserOption) MainOption {
	return func(cfg *mainConfig) { cfg.parserOpts = append(cfg.parserOpts, opts...) }
}

// Main parses args into o and calls the run function of its class with a
// context that is cancelled on SIGINT or SIGTERM. A nil args parses
// os.Args[1:].
//
// The exit code is 0 when run returns nil, the code of an ExitCoder error, or
// 1 for any other error, which is printed to stderr. A failed parse exits
// with status 2 after printing usage and the message; a help request exits
// with 0. Unless ReturnErrors is given, Main ends by calling os.Exit.
func (o *Options) Main(args []string, opts ...MainOption) (int, error) {
	cfg := &mainConfig{
		ctx:    context.Background(),
		out:    os.Stdout,
		errOut: os.Stderr,
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if args == nil {
		args = os.Args[1:]
	}

	parserOpts := append([]ParserOption{Output(cfg.out)}, cfg.parserOpts...)
	if err := o.Parse(args, parserOpts...); err != nil {
		var exitErr *argparse.ExitError
		if !errors.As(err, &exitErr) {
			return cfg.finish(1, err)
		}
		if !cfg.returnErrors && exitErr.Status != 0 {
			fmt.Fprint(cfg.errOut, exitErr.Usage)
			color.New(color.FgRed).Fprintln(cfg.errOut, exitErr.Message)
		}
		if cfg.parseOnly || cfg.returnErrors {
			return exitErr.Status, exitErr
		}
		cfg.exit(exitErr.Status)
		return exitErr.Status, exitErr
	}
	if cfg.parseOnly {
		return 0, nil
	}

	run := o.class.Run()
	if run == nil {
		return cfg.finish(1, constructionErr(o.class.name, "", ErrNoRun))
	}
	ctx, stop := contextWithSigCancel(cfg.ctx)
	defer stop()
	err := run(ctx, o)
	return cfg.finish(exitCode(err), err)
}

func (cfg *mainConfig) finish(code int, err error) (int, error) {
	var status exitStatus
	if errors.As(err, &status) {
		if code == 0 {
			err = nil
		}
	} else if err != nil {
		fmt.Fprintf(cfg.errOut, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
	}
	if !cfg.returnErrors {
		cfg.exit(code)
	}
	return code, err
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

func contextWithSigCancel(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

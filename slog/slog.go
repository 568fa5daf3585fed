//go:build go1.21

package slog

import (
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/isobit/argclass"
	"github.com/isobit/argclass/argparse"
	"github.com/isobit/argclass/cast"
)

var levelType = cast.Text[slog.Level]("Level")

// NewClass returns a class with the log_level and log_json fields, grouped
// under "logging". Their defaults are read from LOG_LEVEL and LOG_JSON in
// env; a nil env reads the process environment. Other classes take the
// fields by listing the class as a parent.
func NewClass(env argclass.Env) (*argclass.Class, error) {
	src := argclass.EnvSource{Env: env}

	level := any(slog.LevelInfo)
	if v, ok := src.Lookup("log_level"); ok {
		fn, err := cast.For(levelType)
		if err != nil {
			return nil, err
		}
		if level, err = fn.Apply(v.(string)); err != nil {
			return nil, errors.Wrap(err, src.Key("log_level"))
		}
	}
	json := any(false)
	if v, ok := src.Lookup("log_json"); ok {
		var err error
		if json, err = cast.ParseBool(v.(string)); err != nil {
			return nil, errors.Wrap(err, src.Key("log_json"))
		}
	}

	return argclass.NewClass("SlogOptions").
		Field("log_level", levelType, argclass.Arg("--log-level").With(
			argclass.Default(level),
			argclass.Group("logging"),
			argclass.Help("minimum level of emitted records"),
		)).
		Field("log_json", cast.Bool(), argclass.Arg("--log-json").With(
			argclass.Action(argparse.StoreTrue),
			argclass.Default(json),
			argclass.Group("logging"),
			argclass.Help("emit records as JSON"),
		)), nil
}

// ConfigureWithHandlerOptions installs a default slog logger writing to w,
// configured by the log_level and log_json fields of o.
func ConfigureWithHandlerOptions(o *argclass.Options, w io.Writer, handlerOpts *slog.HandlerOptions) error {
	level, err := argclass.Value[slog.Level](o, "log_level")
	if err != nil {
		return err
	}
	json, err := argclass.Value[bool](o, "log_json")
	if err != nil {
		return err
	}

	if handlerOpts == nil {
		handlerOpts = &slog.HandlerOptions{}
	}
	handlerOpts.Level = level

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func Configure(o *argclass.Options) error {
	return ConfigureWithHandlerOptions(o, os.Stderr, nil)
}

/*
Package argclass declares command line options as classes of typed fields.

Example

Greet program:

		package main

		import (
			"context"
			"fmt"

			"github.com/isobit/argclass"
			"github.com/isobit/argclass/cast"
		)

		var Greet = argclass.NewClass("Greet").
			SetDoc("Print a greeting.").
			Field("excited", cast.Bool(), argclass.Arg("--excited").With(argclass.Help("use exclamation point"))).
			Field("greeting", cast.String(), argclass.Arg("--greeting").With(argclass.Default("Hey"), argclass.Help("the greeting to use"))).
			Field("name", cast.String(), argclass.PosArg("NAME")).
			SetRun(func(ctx context.Context, o *argclass.Options) error {
				greeting, _ := argclass.Value[string](o, "greeting")
				name, _ := argclass.Value[string](o, "name")
				excited, _ := argclass.Value[bool](o, "excited")
				punctuation := "."
				if excited {
					punctuation = "!"
				}
				fmt.Printf("%s, %s%s\n", greeting, name, punctuation)
				return nil
			})

		func main() {
			argclass.New(Greet).Main(nil)
		}

Usage:

		$ greet --help
		usage: greet [-h] [--excited] [--greeting GREETING] NAME

		Print a greeting.

		positional arguments:
		  NAME

		options:
		  -h, --help           show this help message and exit
		  --excited            use exclamation point
		  --greeting GREETING  the greeting to use (default: Hey)
		$ greet --excited world
		Hey, world!

Fields

A field couples a declared type (see package cast) with an argument
declaration made by Arg, PosArg, VarArg, MapArg or AliasArg. Settings left
open are completed from the type: a bool flag becomes a switch, a list
accumulates repeated flags, a Literal restricts the accepted values and a
Map collects KEY=VALUE pairs.

Inheritance

A class lists its parents in order of precedence. Fields are inherited along
the C3 linearization of the parents; a subclass can re-declare a field,
usually with Field.With or Field.WithOptions applied to the inherited one, or
remove it with Shadow.

Instances

An *Options holds one slot per field. Besides parsing, slots can be filled
from another instance or any Source (CopyFrom), from the environment
(EnvSource) or from a decoded YAML or TOML document (SetExternal).
*/
package argclass

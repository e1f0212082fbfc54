// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/pfctl/pfctl/internal/meta"
)

// NewGlobalFlags returns the output shaping flags shared by commands that
// render result sets. Values fall back to the config file, first under the
// command namespace and then globally.
func NewGlobalFlags(ns string, m meta.Meta) (flags []cli.Flag) {
	output := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format",
		Value:   "text",
		Sources: cli.NewValueSourceChain(cli.EnvVar("PFCTL_OUTPUT")),
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
	padding := &cli.IntFlag{
		Name:  "padding",
		Usage: "spaces between text columns",
		Value: 2,
	}
	color := &cli.BoolFlag{
		Name:    "color",
		Aliases: []string{"c"},
		Usage:   "enable colored text output",
		Value:   false,
	}
	configChain(ns, output.Name, m, &output.Sources)
	configChain(ns, padding.Name, m, &padding.Sources)
	configChain(ns, color.Name, m, &color.Sources)

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		color,
		output,
		padding,
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewLenientFlag constructs the --lenient flag, which makes comparisons on
// missing properties match.
func NewLenientFlag(ns string, m meta.Meta) *cli.BoolFlag {
	flag := &cli.BoolFlag{
		Name:    "lenient",
		Aliases: []string{"l"},
		Usage:   "treat comparisons on missing properties as matching",
		Sources: cli.NewValueSourceChain(cli.EnvVar("PFCTL_LENIENT")),
	}
	configChain(ns, flag.Name, m, &flag.Sources)
	return flag
}

// NewWorkersFlag constructs the --workers flag bounding parallel evaluation.
// Zero means one worker per CPU.
func NewWorkersFlag(ns string, m meta.Meta) *cli.IntFlag {
	flag := &cli.IntFlag{
		Name:    "workers",
		Aliases: []string{"w"},
		Usage:   "number of entries evaluated in parallel, 0 for one per CPU",
		Sources: cli.NewValueSourceChain(cli.EnvVar("PFCTL_WORKERS")),
		Validator: func(value int) error {
			return FlagValidators(value, NonNegativeValidator)
		},
	}
	configChain(ns, flag.Name, m, &flag.Sources)
	return flag
}

// NewRootFlag constructs the --root flag naming the path of the entry array
// inside a catalog document.
func NewRootFlag(ns string, m meta.Meta) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "root",
		Aliases: []string{"r"},
		Usage:   "path of the entry array in the catalog, e.g. catalog.products",
	}
	configChain(ns, flag.Name, m, &flag.Sources)
	return flag
}

// configChain adds namespaced and global config file sources to chain. It is
// a no-op when no config file was loaded.
func configChain(ns string, name string, m meta.Meta, chain *cli.ValueSourceChain) {
	path := m.Config.Source
	if path == "" {
		return
	}

	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(name, altsrc.StringSourcer(path)))
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pfctl/pfctl/internal/config"
	"github.com/pfctl/pfctl/internal/log"
	"github.com/pfctl/pfctl/internal/meta"
)

// InitApp builds the pfctl command tree for args, bound to the process
// streams.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the pfctl
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}
	config.Config.Namespace = ns

	// A missing config file is not an error; flags then fall back to env and
	// defaults only.
	if len(config.Config.Data) == 0 {
		if _, err := config.Load(); err != nil {
			log.Debugf("no config loaded: err=%v", err)
		}
	}

	m := meta.Meta{
		Args:        args,
		Config:      config.Config,
		Context:     ctx,
		StartingDir: sd,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}

	return NewApp(m), nil
}

// NewApp returns the root command with every subcommand wired to m. Flags are
// created per call so separate apps never share parsed values.
func NewApp(m meta.Meta) *cli.Command {
	app := &cli.Command{
		Name:      "pfctl",
		Usage:     "Property Filter Control",
		Writer:    m.Stdout,
		ErrWriter: m.Stderr,
		Reader:    m.Stdin,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "pfctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		checkCommandBuilder(m),
		evalCommandBuilder(m),
		fmtCommandBuilder(m),
		refsCommandBuilder(m),
		scanCommandBuilder(m),
		typesCommandBuilder(m),
		unitsCommandBuilder(m),
		completionCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pfctl/pfctl/internal/attrs"
	"github.com/pfctl/pfctl/internal/meta"
	"github.com/pfctl/pfctl/internal/output"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	for _, d := range defaults {
		if err = al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err = al.Set(extras); err != nil {
			return nil, fmt.Errorf("--attrs: %w", err)
		}
	}
	err = al.SetGlobalTransformSpec()
	return
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// OutputOptions collects the global output flags of cmd.
func OutputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Output:  cmd.String("output"),
		Sort:    cmd.String("sort"),
		Titles:  cmd.Bool("titles"),
		Color:   cmd.Bool("color"),
		Padding: cmd.Int("padding"),
	}
}

// stdout returns the writer commands print results to.
func stdout(m meta.Meta) io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// stderr returns the writer commands print diagnostics to.
func stderr(m meta.Meta) io.Writer {
	if m.Stderr != nil {
		return m.Stderr
	}
	return os.Stderr
}

// filterArgs returns the filters named on the command line. A lone "-", or no
// arguments with stdin redirected, reads one filter per non-blank line of
// stdin.
func filterArgs(cmd *cli.Command, m meta.Meta) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) == 1 && args[0] == "-" || len(args) == 0 && m.Stdin != nil && !output.IsTerminal(m.Stdin) {
		if m.Stdin == nil {
			return nil, nil
		}
		data, err := io.ReadAll(m.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read filters from stdin: %w", err)
		}

		args = nil
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				args = append(args, line)
			}
		}
	}
	return args, nil
}

// filterArg is filterArgs for commands taking exactly one filter.
func filterArg(cmd *cli.Command, m meta.Meta) (string, error) {
	args, err := filterArgs(cmd, m)
	if err != nil {
		return "", err
	}
	if len(args) != 1 {
		return "", fmt.Errorf("expected one filter, got %d", len(args))
	}
	return args[0], nil
}

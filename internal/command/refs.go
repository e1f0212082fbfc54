// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/pfctl/pfctl/internal/filter"
	"github.com/pfctl/pfctl/internal/meta"
	"github.com/pfctl/pfctl/internal/output"
)

// refsCommandAction lists the properties a filter references.
func refsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	text, err := filterArg(cmd, m)
	if err != nil {
		return err
	}

	f, err := filter.Create(text)
	if err != nil {
		return err
	}

	rows := make([]map[string]interface{}, 0)
	for _, name := range f.References() {
		rows = append(rows, map[string]interface{}{"property": name})
	}

	al, err := BuildAttrs(cmd, "property")
	if err != nil {
		return err
	}
	return output.Spit(rows, al, OutputOptions(cmd), stdout(m))
}

// refsCommandBuilder constructs the cli.Command for "refs", wiring metadata,
// flags, and action handlers.
func refsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "refs",
		Usage:     "list the properties a filter references",
		UsageText: "pfctl refs FILTER [options]",
		Output:    true,
		Action:    refsCommandAction,
		Meta:      meta,
	}).Build()
}

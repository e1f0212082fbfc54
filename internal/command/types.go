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

// typesCommandAction prints every node of a filter in walk order with its
// inferred type.
func typesCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	text, err := filterArg(cmd, m)
	if err != nil {
		return err
	}

	f, err := filter.Create(text)
	if err != nil {
		return err
	}

	types := f.Types()
	rows := make([]map[string]interface{}, 0, len(types))
	filter.Walk(f.Ast(), func(e filter.Expr) bool {
		rows = append(rows, map[string]interface{}{
			"node": filter.Print(e),
			"type": types[e].String(),
		})
		return true
	})

	al, err := BuildAttrs(cmd, "node,type")
	if err != nil {
		return err
	}
	return output.Spit(rows, al, OutputOptions(cmd), stdout(m))
}

// typesCommandBuilder constructs the cli.Command for "types", wiring
// metadata, flags, and action handlers.
func typesCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "types",
		Usage:     "show the inferred type of every filter node",
		UsageText: "pfctl types FILTER [options]",
		Output:    true,
		Action:    typesCommandAction,
		Meta:      meta,
	}).Build()
}

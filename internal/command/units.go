// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pfctl/pfctl/internal/meta"
	"github.com/pfctl/pfctl/internal/output"
	"github.com/pfctl/pfctl/internal/quantity"
)

// unitsCommandAction lists the units amount literals may name. An optional
// argument keeps only units whose name contains it.
func unitsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	match := strings.ToLower(cmd.Args().First())

	var rows []map[string]interface{}
	for _, u := range quantity.Units() {
		if match != "" && !strings.Contains(strings.ToLower(u.Name), match) {
			continue
		}
		rows = append(rows, map[string]interface{}{
			"name":  u.Name,
			"label": u.Label,
		})
	}

	al, err := BuildAttrs(cmd, "name,label")
	if err != nil {
		return err
	}
	return output.Spit(rows, al, OutputOptions(cmd), stdout(m))
}

// unitsCommandBuilder constructs the cli.Command for "units", wiring
// metadata, flags, and action handlers.
func unitsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "units",
		Usage:     "list known units",
		UsageText: "pfctl units [MATCH] [options]",
		Output:    true,
		Action:    unitsCommandAction,
		Meta:      meta,
	}).Build()
}

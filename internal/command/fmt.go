// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pfctl/pfctl/internal/filter"
	"github.com/pfctl/pfctl/internal/meta"
)

// fmtCommandAction prints the canonical form of each filter, one per line.
func fmtCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	texts, err := filterArgs(cmd, m)
	if err != nil {
		return err
	}

	w := stdout(m)
	for _, text := range texts {
		f, err := filter.Create(text)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, filter.Print(f.Ast()))
	}
	return nil
}

// fmtCommandBuilder constructs the cli.Command for "fmt", wiring metadata,
// flags, and action handlers.
func fmtCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "fmt",
		Usage:     "print filters in canonical form",
		UsageText: "pfctl fmt FILTER...",
		Action:    fmtCommandAction,
		Meta:      meta,
	}).Build()
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v3"

	"github.com/pfctl/pfctl/internal/filter"
	"github.com/pfctl/pfctl/internal/log"
	"github.com/pfctl/pfctl/internal/meta"
	"github.com/pfctl/pfctl/internal/output"
)

// ErrInvalidFilters is returned by check when any filter has errors.
var ErrInvalidFilters = errors.New("invalid filters")

// diagnostics flattens the error returned by filter.Diagnose.
func diagnostics(err error) []error {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	return []error{err}
}

// checkCommandAction validates every filter tolerantly, reporting all syntax
// errors rather than just the first.
func checkCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	texts, err := filterArgs(cmd, m)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("no filters to check")
	}

	rows := make([]map[string]interface{}, 0, len(texts))
	invalid := 0
	for _, text := range texts {
		errs := diagnostics(filter.Diagnose(text))
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		if len(errs) > 0 {
			invalid++
		}
		log.Debugf("checked filter: text=%q errors=%d", text, len(errs))

		rows = append(rows, map[string]interface{}{
			"filter": text,
			"valid":  len(errs) == 0,
			"errors": msgs,
		})
	}

	opts := OutputOptions(cmd)
	w := stdout(m)
	switch opts.Output {
	case "json", "yaml":
		al, err := BuildAttrs(cmd, "filter,valid,errors")
		if err != nil {
			return err
		}
		if err := output.Spit(rows, al, opts, w); err != nil {
			return err
		}
	default:
		for _, row := range rows {
			if row["valid"].(bool) {
				fmt.Fprintf(w, "valid    %s\n", row["filter"])
				continue
			}
			fmt.Fprintf(w, "invalid  %s\n", row["filter"])
			for _, msg := range row["errors"].([]string) {
				fmt.Fprintf(w, "  %s\n", msg)
			}
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInvalidFilters, invalid, len(texts))
	}
	return nil
}

// checkCommandBuilder constructs the cli.Command for "check", wiring
// metadata, flags, and action handlers.
func checkCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "check",
		Usage:     "validate filter syntax",
		UsageText: "pfctl check FILTER... | pfctl check - < filters.txt",
		Output:    true,
		Action:    checkCommandAction,
		Meta:      meta,
	}).Build()
}

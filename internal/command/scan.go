// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/pfctl/pfctl/internal/catalog"
	"github.com/pfctl/pfctl/internal/log"
	"github.com/pfctl/pfctl/internal/meta"
	"github.com/pfctl/pfctl/internal/output"
)

// scanDefaultAttrs specifies the default attributes displayed for entries in
// the "scan" command output.
var scanDefaultAttrs = []string{"id"}

// loadCatalog reads the catalog named by the first argument. "-" reads stdin.
func loadCatalog(cmd *cli.Command, m meta.Meta) (*catalog.Catalog, error) {
	format, err := catalog.ParseFormat(cmd.String("format"))
	if err != nil {
		return nil, err
	}
	opts := catalog.Options{
		Root:   cmd.String("root"),
		IDKey:  cmd.String("id"),
		Format: format,
	}

	path := cmd.Args().First()
	switch path {
	case "":
		return nil, fmt.Errorf("no catalog given")
	case "-":
		if m.Stdin == nil {
			return nil, fmt.Errorf("no catalog on stdin")
		}
		data, err := io.ReadAll(m.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		cat, err := catalog.Load(data, opts)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		cat.Source = "stdin"
		return cat, nil
	}
	return catalog.LoadFile(path, opts)
}

// warn prints every error wrapped in err to w.
func warn(w io.Writer, err error) {
	for _, e := range diagnostics(err) {
		fmt.Fprintf(w, "warning: %v\n", e)
	}
}

// scanCommandAction evaluates --filter against every catalog entry and
// renders the matches.
func scanCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	cat, err := loadCatalog(cmd, m)
	if err != nil {
		return err
	}
	warn(stderr(m), cat.Warnings)

	// One scan per run, so the scanner's filter cache stays cold here.
	scanner := catalog.NewScanner(
		catalog.Workers(cmd.Int("workers")),
		catalog.Lenient(cmd.Bool("lenient")),
	)
	res, err := scanner.Scan(ctx, cat, cmd.String("filter"))
	if err != nil {
		return err
	}
	warn(stderr(m), res.Errors)

	summary := fmt.Sprintf("%s of %s entries matched",
		humanize.Comma(int64(len(res.Matches))), humanize.Comma(int64(res.Scanned)))
	log.Debugf("scan %s: %s", cat.Source, summary)

	if cmd.Bool("count") {
		fmt.Fprintln(stdout(m), summary)
		return nil
	}

	al, err := BuildAttrs(cmd, scanDefaultAttrs...)
	if err != nil {
		return err
	}

	opts := OutputOptions(cmd)
	if opts.Titles {
		opts.Footer = summary
	}
	return output.SliceDiceSpit(res.Matches, al, opts, stdout(m))
}

// scanCommandBuilder constructs the cli.Command for "scan", wiring metadata,
// flags, and action handlers.
func scanCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "scan",
		Usage:     "filter the entries of a JSON or YAML catalog",
		UsageText: "pfctl scan CATALOG --filter FILTER [options]",
		Output:    true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "property filter the entries must match",
			},
			&cli.BoolFlag{
				Name:  "count",
				Usage: "only print how many entries matched",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "catalog format: auto, json or yaml",
				Value: "auto",
				Validator: func(value string) error {
					return FlagValidators(value, FormatValidator)
				},
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "entry field used as id",
				Value: "id",
			},
			NewLenientFlag("scan", meta),
			NewRootFlag("scan", meta),
			NewWorkersFlag("scan", meta),
		},
		Action: scanCommandAction,
		Meta:   meta,
	}).Build()
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pfctl/pfctl/internal/catalog"
	"github.com/pfctl/pfctl/internal/filter"
	"github.com/pfctl/pfctl/internal/log"
	"github.com/pfctl/pfctl/internal/meta"
	"github.com/pfctl/pfctl/internal/propval"
)

// ErrEngineMismatch is returned by eval --engine both when the evaluator and
// the compiled predicate disagree.
var ErrEngineMismatch = errors.New("engines disagree")

// evalProps builds the property set from --props or --props-file.
func evalProps(cmd *cli.Command) (propval.Set, error) {
	if path := cmd.String("props-file"); path != "" {
		cat, err := catalog.LoadFile(path, catalog.Options{Root: cmd.String("root")})
		if err != nil {
			return propval.Set{}, err
		}
		if cat.Warnings != nil {
			log.WithError(cat.Warnings).Warn("props file")
		}
		if len(cat.Entries) != 1 {
			return propval.Set{}, fmt.Errorf("%s: expected one object, got %d", path, len(cat.Entries))
		}
		return cat.Entries[0].Props, nil
	}

	set, err := propval.ParseSet(cmd.String("props"))
	if err != nil {
		return propval.Set{}, fmt.Errorf("--props: %w", err)
	}
	return set, nil
}

// evalCommandAction evaluates one filter against one property set with the
// selected engine.
func evalCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	text, err := filterArg(cmd, m)
	if err != nil {
		return err
	}

	f, err := filter.Create(text)
	if err != nil {
		return err
	}

	set, err := evalProps(cmd)
	if err != nil {
		return err
	}
	log.Debugf("eval: filter=%q props=%s", f.Text(), set)

	lenient := cmd.Bool("lenient")
	var result bool
	switch cmd.String("engine") {
	case "compiled":
		result, err = f.Predicate().Matches(set)
	case "both":
		result, err = filter.Evaluate(f.Ast(), set, filter.Lenient(lenient))
		if err != nil {
			break
		}
		// The compiled predicate has no lenient mode, so agreement is only
		// checked for strict evaluation.
		if !lenient {
			compiled, cerr := f.Predicate().Matches(set)
			if cerr != nil {
				return fmt.Errorf("%w: eval=%v compiled error: %w", ErrEngineMismatch, result, cerr)
			}
			if compiled != result {
				return fmt.Errorf("%w: eval=%v compiled=%v", ErrEngineMismatch, result, compiled)
			}
		}
	default:
		result, err = filter.Evaluate(f.Ast(), set, filter.Lenient(lenient))
	}
	if err != nil {
		return fmt.Errorf("filter %q: %w", f.Text(), err)
	}

	fmt.Fprintln(stdout(m), result)
	return nil
}

// evalCommandBuilder constructs the cli.Command for "eval", wiring metadata,
// flags, and action handlers.
func evalCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "eval",
		Usage:     "evaluate a filter against a property set",
		UsageText: "pfctl eval FILTER --props 'a=1;b=2:meter;' [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "props",
				Aliases: []string{"p"},
				Usage:   "property set in name=value; form",
			},
			&cli.StringFlag{
				Name:  "props-file",
				Usage: "JSON or YAML file holding a single property object",
			},
			&cli.StringFlag{
				Name:  "engine",
				Usage: "evaluation engine: eval, compiled or both",
				Value: "eval",
				Validator: func(value string) error {
					return FlagValidators(value, EngineValidator)
				},
			},
			NewLenientFlag("eval", meta),
			NewRootFlag("eval", meta),
		},
		Action: evalCommandAction,
		Meta:   meta,
	}).Build()
}

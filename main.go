// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pfctl/pfctl/internal/command"
	"github.com/pfctl/pfctl/internal/config"
	"github.com/pfctl/pfctl/internal/log"
	"github.com/pfctl/pfctl/internal/meta"
	"github.com/pfctl/pfctl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Long())
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		// Short-circuit completion: pass args directly.
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)
	return deduplicateFlags(args)
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands a named argument set from the config file. An
// explicit @set argument is replaced in place by the entries of
// <command>.<set>. Without one, <command>.defaults is injected right after the
// command so that anything typed on the command line comes later and wins.
func processSetOnly(args []string) []string {
	if len(args) < 2 {
		return args
	}

	idx := 2
	set := "defaults"
	insertIdx := idx
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			insertIdx = idx + i
			args = append(args[:insertIdx:insertIdx], args[insertIdx+1:]...)
			break
		}
	}

	return injectConfigSet(args, args[1]+"."+set, insertIdx)
}

// injectConfigSet inserts the entries of the config list at key into args at
// insertIdx. Each entry may hold several arguments.
func injectConfigSet(args []string, key string, insertIdx int) []string {
	entries, err := config.GetStringSlice(key, nil)
	if err != nil {
		log.Warnf("ignoring set %s: %v", key, err)
		return args
	}
	if len(entries) == 0 {
		return args
	}
	log.Debugf("injecting set: key=%s entries=%v", key, entries)

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, splitFields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// splitFields splits a set entry on whitespace. Single or double quotes group
// words so a filter with spaces stays one argument.
func splitFields(s string) []string {
	var (
		fields []string
		cur    strings.Builder
		quote  rune
		inWord bool
	)

	for _, r := range s {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t' || r == '\n':
			if inWord {
				fields = append(fields, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		fields = append(fields, cur.String())
	}
	return fields
}

// flagInfo describes a flag of the command named by args[1]: its primary name
// and whether it is a boolean switch that never takes a value.
type flagInfo struct {
	name   string
	isBool bool
}

// commandFlags indexes every flag name and alias of the pfctl subcommand
// named cmd. An unknown command yields an empty index.
func commandFlags(cmd string) map[string]flagInfo {
	flags := map[string]flagInfo{}
	for _, c := range command.NewApp(meta.Meta{}).Commands {
		if c.Name != cmd {
			continue
		}
		for _, f := range c.Flags {
			_, isBool := f.(*cli.BoolFlag)
			names := f.Names()
			for _, n := range names {
				flags[n] = flagInfo{name: names[0], isBool: isBool}
			}
		}
	}
	return flags
}

// deduplicateFlags drops every occurrence of a flag except the last, keeping
// a flag's value with it. Aliases count as the same flag. Boolean flags of
// the command never take a value; any other flag without "=" owns the
// following argument when that argument does not itself look like a flag.
// Positional arguments are always kept.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	known := commandFlags(args[1])

	type unit struct {
		key    string
		tokens []string
	}

	var units []unit
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		if !strings.HasPrefix(a, "-") || a == "-" {
			units = append(units, unit{tokens: []string{a}})
			continue
		}

		key, _, hasValue := strings.Cut(a, "=")
		info, ok := known[strings.TrimLeft(key, "-")]
		if ok {
			key = info.name
		}

		u := unit{key: key, tokens: []string{a}}
		if !hasValue && !info.isBool && i+1 < len(rest) && !strings.HasPrefix(rest[i+1], "-") {
			u.tokens = append(u.tokens, rest[i+1])
			i++
		}
		units = append(units, u)
	}

	last := make(map[string]int, len(units))
	for i, u := range units {
		if u.key != "" {
			last[u.key] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, u := range units {
		if u.key != "" && last[u.key] != i {
			log.Debugf("dropping overridden flag: %v", u.tokens)
			continue
		}
		out = append(out, u.tokens...)
	}
	return out
}

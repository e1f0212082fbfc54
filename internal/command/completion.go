// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pfctl/pfctl/internal/meta"
)

const bashCompletionScript = `# bash completion for pfctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_pfctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "check eval fmt refs scan types units completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --output -o --padding --sort -s --titles -t"

    case "$cmd" in
        check|refs|types|units)
            local opts="$common"
            ;;
        eval)
            local opts="--engine --lenient -l --props -p --props-file --root -r"
            ;;
        fmt)
            local opts=""
            ;;
        scan)
            local opts="$common --count --filter -f --format --id --lenient -l --root -r --workers -w"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --engine)
            COMPREPLY=( $(compgen -W "eval compiled both" -- "$cur") )
            return 0
            ;;
        --format)
            COMPREPLY=( $(compgen -W "auto json yaml" -- "$cur") )
            return 0
            ;;
        --props-file)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # scan takes a catalog file positional.
    if [[ "$cmd" == "scan" ]]; then
        COMPREPLY=( $(compgen -f -- "$cur") )
    fi
    return 0
}

complete -F _pfctl pfctl
`

const zshCompletionScript = `#compdef pfctl

_pfctl() {
  local -a cmds
  cmds=(
    'check:validate filter syntax'
    'eval:evaluate a filter against a property set'
    'fmt:print filters in canonical form'
    'refs:list the properties a filter references'
    'scan:filter the entries of a JSON or YAML catalog'
    'types:show the inferred type of every filter node'
    'units:list known units'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--padding[spaces between columns]:padding'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'pfctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    check|refs|types)
      _arguments -C $common '*:filter'
      ;;
    eval)
      _arguments -C \
        '--engine[evaluation engine]:engine:(eval compiled both)' \
        '(-l --lenient)'{-l,--lenient}'[missing properties match]' \
        '(-p --props)'{-p,--props}'[property set]:props' \
        '--props-file[property file]:file:_files' \
        '(-r --root)'{-r,--root}'[entry path]:root' \
        '1:filter'
      ;;
    fmt)
      _arguments '*:filter'
      ;;
    scan)
      _arguments -C \
        $common \
        '--count[only count matches]' \
        '(-f --filter)'{-f,--filter}'[property filter]:filter' \
        '--format[catalog format]:format:(auto json yaml)' \
        '--id[entry id field]:id' \
        '(-l --lenient)'{-l,--lenient}'[missing properties match]' \
        '(-r --root)'{-r,--root}'[entry path]:root' \
        '(-w --workers)'{-w,--workers}'[parallel workers]:workers' \
        '1:catalog:_files'
      ;;
    units)
      _arguments -C $common '1:match'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _pfctl pfctl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	w := stdout(m)

	shell := cmd.Args().First()
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		fmt.Fprintln(stderr(m), "usage: pfctl completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "pfctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen writes a markdown page and a tldr page for every pfctl
// subcommand. Usage and flags come from the live command tree; examples and
// notes come from examples.yaml.
package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/pfctl/pfctl/internal/command"
	"github.com/pfctl/pfctl/internal/meta"
)

//go:embed examples.yaml
var examplesYAML []byte

type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Description string    `yaml:"description"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type Flag struct {
	ID   string
	Help string
}

type TemplateData struct {
	Subcommand
	Short   string
	Usage   string
	Flags   []Flag
	Date    string
	Version string
}

type Outputs struct {
	Template *template.Template
	Prefix   string
	Suffix   string
}

var (
	mdTemplate = template.Must(template.New("md").Parse(`# pfctl {{.ID}}

{{.Short}}

## Usage

    {{.Usage}}
{{if .Description}}
{{.Description}}
{{end}}{{if .Flags}}
## Flags
{{range .Flags}}
- ` + "`{{.ID}}`" + `: {{.Help}}{{end}}
{{end}}{{if .Examples}}
## Examples
{{range .Examples}}
{{.Description}}

    {{.Command}}
{{end}}{{end}}{{if .Notes}}
## Notes
{{range .Notes}}
- {{.}}{{end}}
{{end}}
_pfctl {{.Version}}, {{.Date}}_
`))

	tldrTemplate = template.Must(template.New("tldr").Parse(`# pfctl {{.ID}}

> {{.Short}}
{{range .Examples}}
- {{.Description}}:

` + "`{{.Command}}`" + `
{{end}}`))
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCS_DIR")
		os.Exit(1)
	}
	if err := generate(os.Args[1], getVersion(), time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generate renders every subcommand page below docs.
func generate(docs string, version string, now time.Time) error {
	var config Config
	if err := yaml.Unmarshal(examplesYAML, &config); err != nil {
		return fmt.Errorf("failed to parse examples: %w", err)
	}

	types := []Outputs{
		{Template: mdTemplate, Prefix: "commands/", Suffix: ".md"},
		{Template: tldrTemplate, Prefix: "tldr/pfctl-", Suffix: ".md"},
	}

	for _, data := range collect(command.NewApp(meta.Meta{}), config, version, now) {
		for _, t := range types {
			path := filepath.Join(docs, t.Prefix+data.ID+t.Suffix)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}

			file, err := os.Create(path)
			if err != nil {
				return err
			}
			fmt.Println("Generating", path)
			err = render(file, t.Template, data)
			file.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	return nil
}

// collect merges the command tree with the example file. Flags are sorted by
// name.
func collect(app *cli.Command, config Config, version string, now time.Time) []TemplateData {
	extras := make(map[string]Subcommand, len(config.Subcommands))
	for _, sub := range config.Subcommands {
		extras[sub.ID] = sub
	}

	var out []TemplateData
	for _, cmd := range app.Commands {
		sub, ok := extras[cmd.Name]
		if !ok {
			sub = Subcommand{ID: cmd.Name}
		}

		var flags []Flag
		for _, f := range cmd.Flags {
			flags = append(flags, Flag{
				ID:   f.Names()[0],
				Help: strings.Join(strings.Fields(f.String()), " "),
			})
		}
		sort.Slice(flags, func(i, j int) bool {
			return flags[i].ID < flags[j].ID
		})

		out = append(out, TemplateData{
			Subcommand: sub,
			Short:      cmd.Usage,
			Usage:      cmd.UsageText,
			Flags:      flags,
			Date:       now.Format("January 2, 2006"),
			Version:    version,
		})
	}
	return out
}

func render(w io.Writer, tmpl *template.Template, data TemplateData) error {
	return tmpl.Execute(w, data)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}

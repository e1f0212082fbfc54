// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for pfctl's user
// configuration. The configuration is a YAML document named by PFCTL_CFG_FILE
// or located in the user's configuration directory, typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/pfctl.yaml or $HOME/.config/pfctl.yaml
//   - Windows: %APPDATA%/pfctl.yaml
//
// Keys are addressed with dotted paths. When Config.Namespace is set (the
// running subcommand), "workers" resolves "scan.workers" before "workers".
package config

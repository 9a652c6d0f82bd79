// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Subcommand argument parsing for kgllm CLI handlers.
//
// Handlers receive the raw args after the command word. ArgParser
// splits them into a subcommand, positionals, and --name value flags.
package cli

import "strings"

// ArgParser parses a handler's raw argument list.
type ArgParser struct {
	positionals []string
	flags       map[string]string
}

// NewArgParser splits raw args into positionals and flags. A flag
// consumes the next arg as its value unless that arg is itself a flag,
// in which case the flag is boolean-like with value "true".
func NewArgParser(raw []string) *ArgParser {
	p := &ArgParser{flags: make(map[string]string)}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		if !strings.HasPrefix(arg, "--") {
			p.positionals = append(p.positionals, arg)
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			p.flags[name[:eq]] = name[eq+1:]
			continue
		}
		if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "--") {
			i++
			p.flags[name] = raw[i]
		} else {
			p.flags[name] = "true"
		}
	}
	return p
}

// Subcommand returns the first positional, or "".
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Positional returns the positional at index, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positionals) {
		return ""
	}
	return p.positionals[index]
}

// Flag returns the value of --name, or "".
func (p *ArgParser) Flag(name string) string {
	return p.flags[name]
}

// FlagOrDefault returns the value of --name, or defaultValue when unset.
func (p *ArgParser) FlagOrDefault(name, defaultValue string) string {
	if v, ok := p.flags[name]; ok {
		return v
	}
	return defaultValue
}

// HasFlag reports whether --name was given.
func (p *ArgParser) HasFlag(name string) bool {
	_, ok := p.flags[name]
	return ok
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// stats.go - System statistics command handler for the kgllm CLI.
//
// Command: stats (aliases: status, s)
// Short:   Show server resource usage
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Nailong-Research-Team/kgllm/internal/auth"
)

// HandleStats fetches and prints the server resource snapshot.
func HandleStats(args Args) {
	cfg, err := loadConfig(args)
	if err != nil {
		fatal(err)
	}
	client := newClient(cfg, auth.NewTokenStore())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	stats, err := client.Stats(ctx)
	if err != nil {
		fatal(err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			fatal(err)
		}
		return
	}

	fmt.Println(TitleStyle.Render("System Statistics"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Server:"), ValueStyle.Render(client.BaseURL()))
	fmt.Printf("%s %s\n", LabelStyle.Render("CPU:"), gauge(stats.CPU))
	fmt.Printf("%s %s\n", LabelStyle.Render("Memory:"), gauge(stats.Memory))
	fmt.Printf("%s %s\n", LabelStyle.Render("Disk:"), gauge(stats.Disk))
}

// gauge renders a percentage as a fixed-width bar.
func gauge(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	const width = 20
	filled := int(pct / 100 * width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %5.1f%%", bar, pct)
}

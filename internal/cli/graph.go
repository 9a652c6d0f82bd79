// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// graph.go - Knowledge graph command handler for the kgllm CLI.
//
// Command: graph [node-id]
// Short:   List graph nodes, or show one node and its relations
//
// Examples:
//   kgllm graph                 List all nodes with edge counts
//   kgllm graph node_42         Show node_42 and its outgoing edges
//   kgllm graph --json          Dump the raw graph
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Nailong-Research-Team/kgllm/internal/auth"
)

// HandleGraph fetches the knowledge graph and prints it.
func HandleGraph(args Args) {
	cfg, err := loadConfig(args)
	if err != nil {
		fatal(err)
	}
	client := newClient(cfg, auth.NewTokenStore())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	graph, err := client.Graph(ctx)
	if err != nil {
		fatal(err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(graph); err != nil {
			fatal(err)
		}
		return
	}

	if args.Subcommand != "" {
		node, ok := graph.NodeByID(args.Subcommand)
		if !ok {
			fmt.Fprintf(os.Stderr, "kgllm: no node %q in the graph\n", args.Subcommand)
			os.Exit(1)
		}
		fmt.Println(TitleStyle.Render(node.Label))
		fmt.Printf("%s %s\n", LabelStyle.Render("ID:"), node.ID)
		edges := graph.Neighbors(node.ID)
		if len(edges) == 0 {
			fmt.Println(DimStyle.Render("No outgoing relations."))
			return
		}
		fmt.Println(SectionStyle.Render("Relations"))
		for _, e := range edges {
			target := e.Target
			if t, ok := graph.NodeByID(e.Target); ok {
				target = t.Label
			}
			fmt.Printf("  %s %s %s\n", node.Label, DimStyle.Render("-["+e.Label+"]->"), target)
		}
		return
	}

	fmt.Println(TitleStyle.Render("Knowledge Graph"))
	fmt.Printf("%s %d nodes, %d edges\n\n", LabelStyle.Render("Size:"), len(graph.Nodes), len(graph.Edges))
	for _, n := range graph.Nodes {
		fmt.Printf("  %-24s %s %s\n",
			n.ID,
			ValueStyle.Render(n.Label),
			DimStyle.Render(fmt.Sprintf("(%d out)", len(graph.Neighbors(n.ID)))))
	}
}

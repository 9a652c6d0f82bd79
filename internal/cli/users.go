// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// users.go - Account management command handler for the kgllm CLI.
//
// Command: users [list|me|create|update|delete]
// Short:   Inspect and manage server accounts
//
// Examples:
//   kgllm users                       List accounts (admin only)
//   kgllm users me                    Show your own profile
//   kgllm users create bob --email bob@example.com --role user
//   kgllm users update <id> --role admin
//   kgllm users update <id> --active false
//   kgllm users delete <id>
//
// Create prompts for the new account's password on the terminal.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/Nailong-Research-Team/kgllm/internal/api"
	"github.com/Nailong-Research-Team/kgllm/internal/auth"
	"github.com/Nailong-Research-Team/kgllm/internal/model"
)

// HandleUsers dispatches the users subcommands.
func HandleUsers(args Args) {
	cfg, err := loadConfig(args)
	if err != nil {
		fatal(err)
	}
	client := newClient(cfg, auth.NewTokenStore())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	parser := NewArgParser(args.Raw)
	switch parser.Subcommand() {
	case "", "list", "ls":
		users, err := client.ListUsers(ctx)
		if err != nil {
			fatal(err)
		}
		printUsers(args, users)

	case "me", "profile":
		user, err := client.Profile(ctx)
		if err != nil {
			fatal(err)
		}
		printUser(args, user)

	case "create":
		username := parser.Positional(1)
		if username == "" {
			fmt.Fprintln(os.Stderr, "Usage: kgllm users create USERNAME [--email E] [--role R]")
			os.Exit(1)
		}
		password, err := readPassword("Password for " + username + ": ")
		if err != nil {
			fatal(err)
		}
		user, err := client.CreateUser(ctx, api.UserRequest{
			Username: username,
			Password: password,
			Email:    parser.Flag("email"),
			Role:     parser.FlagOrDefault("role", "user"),
		})
		if err != nil {
			fatal(err)
		}
		if !args.Quiet {
			fmt.Println(SuccessStyle.Render("Created"), user.Username, DimStyle.Render("("+user.ID+")"))
		}

	case "update":
		id := parser.Positional(1)
		if id == "" {
			fmt.Fprintln(os.Stderr, "Usage: kgllm users update ID [--email E] [--role R] [--active BOOL]")
			os.Exit(1)
		}
		req := api.UserRequest{
			Email: parser.Flag("email"),
			Role:  parser.Flag("role"),
		}
		if v := parser.Flag("active"); v != "" {
			active, err := strconv.ParseBool(v)
			if err != nil {
				fatal(fmt.Errorf("--active must be true or false: %w", err))
			}
			req.Active = &active
		}
		user, err := client.UpdateUser(ctx, id, req)
		if err != nil {
			fatal(err)
		}
		if !args.Quiet {
			fmt.Println(SuccessStyle.Render("Updated"), user.Username)
		}

	case "delete", "rm":
		id := parser.Positional(1)
		if id == "" {
			fmt.Fprintln(os.Stderr, "Usage: kgllm users delete ID")
			os.Exit(1)
		}
		if err := client.DeleteUser(ctx, id); err != nil {
			fatal(err)
		}
		if !args.Quiet {
			fmt.Println(SuccessStyle.Render("Deleted"), id)
		}

	default:
		fmt.Fprintf(os.Stderr, "kgllm: unknown users subcommand %q\n", parser.Subcommand())
		os.Exit(1)
	}
}

func printUsers(args Args, users []model.User) {
	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(users); err != nil {
			fatal(err)
		}
		return
	}
	fmt.Println(TitleStyle.Render("Accounts"))
	for _, u := range users {
		state := "active"
		if !u.Active {
			state = "disabled"
		}
		fmt.Printf("  %-12s %-20s %-8s %s\n",
			u.ID, u.Username, u.Role, DimStyle.Render(state))
	}
}

func printUser(args Args, u *model.User) {
	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(u); err != nil {
			fatal(err)
		}
		return
	}
	fmt.Println(TitleStyle.Render(u.Username))
	fmt.Printf("%s %s\n", LabelStyle.Render("ID:"), u.ID)
	fmt.Printf("%s %s\n", LabelStyle.Render("Email:"), u.Email)
	fmt.Printf("%s %s\n", LabelStyle.Render("Role:"), u.Role)
	fmt.Printf("%s %t\n", LabelStyle.Render("Active:"), u.Active)
	if !u.CreatedAt.IsZero() {
		fmt.Printf("%s %s\n", LabelStyle.Render("Created:"), u.CreatedAt.Format("2006-01-02"))
	}
}

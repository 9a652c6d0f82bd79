// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// login.go - Login, logout and register command handlers for the kgllm CLI.
//
// Commands: login [username], logout, register [username]
//
// Passwords are read from the terminal with echo disabled. The
// received bearer token is sealed at rest; see the auth package.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Nailong-Research-Team/kgllm/internal/api"
	"github.com/Nailong-Research-Team/kgllm/internal/auth"
)

// HandleLogin authenticates and persists the bearer token.
func HandleLogin(args Args) {
	cfg, err := loadConfig(args)
	if err != nil {
		fatal(err)
	}

	username := strings.TrimSpace(args.Username)
	if username == "" {
		username = promptLine("Username: ")
	}
	if username == "" {
		fatal(fmt.Errorf("username must not be empty"))
	}

	password, err := readPassword("Password: ")
	if err != nil {
		fatal(err)
	}

	store := auth.NewTokenStore()
	client := newClient(cfg, store)

	resp, err := client.Login(context.Background(), username, password)
	if err != nil {
		fatal(err)
	}

	if err := store.Save(resp.Token); err != nil {
		fatal(err)
	}

	if !args.Quiet {
		fmt.Println(SuccessStyle.Render("Logged in"), "as", username)
	}
}

// HandleRegister creates a new account and stores the returned token,
// so registering logs the new user straight in.
func HandleRegister(args Args) {
	cfg, err := loadConfig(args)
	if err != nil {
		fatal(err)
	}

	username := strings.TrimSpace(args.Username)
	if username == "" {
		username = promptLine("Username: ")
	}
	if username == "" {
		fatal(fmt.Errorf("username must not be empty"))
	}

	email := promptLine("Email: ")
	if email == "" {
		fatal(fmt.Errorf("email must not be empty"))
	}

	password, err := readPassword("Password: ")
	if err != nil {
		fatal(err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal(err)
	}
	if password != confirm {
		fatal(fmt.Errorf("passwords do not match"))
	}

	store := auth.NewTokenStore()
	client := newClient(cfg, store)

	resp, err := client.Register(context.Background(), api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		fatal(err)
	}

	if err := store.Save(resp.Token); err != nil {
		fatal(err)
	}

	if !args.Quiet {
		fmt.Println(SuccessStyle.Render("Account created"), "- logged in as", username)
	}
}

// HandleLogout removes the stored token. Safe to run when not logged in.
func HandleLogout(args Args) {
	if err := auth.NewTokenStore().Delete(); err != nil {
		fatal(err)
	}
	if !args.Quiet {
		fmt.Println(SuccessStyle.Render("Logged out"))
	}
}

// promptLine reads one trimmed line interactively. Prompting requires
// a terminal; anything else cannot answer.
func promptLine(prompt string) string {
	if !IsTTY() {
		fatal(fmt.Errorf("%q required when stdin is not a terminal", strings.TrimSuffix(prompt, ": ")))
	}
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		fatal(fmt.Errorf("failed to read input: %w", err))
	}
	return strings.TrimSpace(line)
}

// readPassword reads a password without echoing. Falls back to a plain
// line read when stdin is not a terminal (CI, pipes).
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

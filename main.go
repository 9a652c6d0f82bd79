// kgllm - terminal client for the KGLLM knowledge-graph assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nailong-Research-Team/kgllm/internal/api"
	"github.com/Nailong-Research-Team/kgllm/internal/attach"
	"github.com/Nailong-Research-Team/kgllm/internal/auth"
	"github.com/Nailong-Research-Team/kgllm/internal/cli"
	"github.com/Nailong-Research-Team/kgllm/internal/config"
	"github.com/Nailong-Research-Team/kgllm/internal/session"
	"github.com/Nailong-Research-Team/kgllm/internal/typewriter"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/chat"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/dashboard"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/graph"
	"github.com/Nailong-Research-Team/kgllm/internal/ui/styles"
	"github.com/Nailong-Research-Team/kgllm/internal/util"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference so engine notifications can reach the UI
// goroutine from worker goroutines.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdLogin:
		cli.HandleLogin(args)
	case cli.CmdLogout:
		cli.HandleLogout(args)
	case cli.CmdRegister:
		cli.HandleRegister(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdStats:
		cli.HandleStats(args)
	case cli.CmdGraph:
		cli.HandleGraph(args)
	case cli.CmdUsers:
		cli.HandleUsers(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(args)
	}
}

// runTUI wires the engine to the Bubble Tea program and runs it.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if args.Server != "" {
		cfg.Server.URL = args.Server
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger, logCloser, err := util.OpenLogFile(config.Dir(), "kgllm.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	store := auth.NewTokenStore()
	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.Server.URL,
		Timeout: cfg.Timeout(),
	}, store.Token)

	previewer, err := attach.NewFilePreviewer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating preview store: %v\n", err)
		os.Exit(1)
	}
	defer previewer.Close()

	engine := session.NewController(client, attach.NewManager(previewer),
		session.WithScheduler(typewriter.NewScheduler(
			typewriter.WithInterval(cfg.TypeInterval()))),
		session.WithLogger(logger),
		session.WithSendTimeout(cfg.Timeout()),
		session.WithNotify(func() {
			programMu.Lock()
			p := programRef
			programMu.Unlock()
			if p != nil {
				p.Send(chat.EngineChangedMsg{})
			}
		}),
	)
	defer engine.Close()

	theme := styles.NewTheme(cfg.UI.Theme)
	app := newApp(theme, cfg, client, engine)

	// Pick up theme and cadence edits without a restart.
	watcher, err := config.NewWatcher(func(c *config.Config) {
		programMu.Lock()
		p := programRef
		programMu.Unlock()
		if p != nil {
			p.Send(configReloadedMsg{cfg: c})
		}
	})
	if err == nil {
		if werr := watcher.Watch(); werr == nil {
			defer watcher.Close()
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running kgllm: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// view identifies one of the top-level tabs.
type view int

const (
	viewChat view = iota
	viewDashboard
	viewGraph
	viewCount
)

func (v view) title() string {
	switch v {
	case viewChat:
		return "Chat"
	case viewDashboard:
		return "Dashboard"
	case viewGraph:
		return "Graph"
	default:
		return "?"
	}
}

// configReloadedMsg delivers a reloaded configuration from the watcher.
type configReloadedMsg struct {
	cfg *config.Config
}

// appModel is the root model: a tab bar over the three views.
type appModel struct {
	theme  *styles.Theme
	active view

	chat      chat.Model
	dashboard dashboard.Model
	graph     graph.Model

	width  int
	height int
}

func newApp(theme *styles.Theme, cfg *config.Config, client *api.Client, engine *session.Controller) appModel {
	return appModel{
		theme:     theme,
		chat:      chat.New(theme, engine, cfg.Server.URL),
		dashboard: dashboard.New(theme, client, engine.Store()),
		graph:     graph.New(theme, client),
	}
}

func (a appModel) Init() tea.Cmd {
	return tea.Batch(a.chat.Init(), a.dashboard.Init(), a.graph.Init())
}

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// One line for the tab bar.
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 1}
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(inner)
		cmds = append(cmds, cmd)
		a.dashboard, cmd = a.dashboard.Update(inner)
		cmds = append(cmds, cmd)
		a.graph, cmd = a.graph.Update(inner)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case configReloadedMsg:
		a.theme.Apply(msg.cfg.UI.Theme)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			// Engine teardown happens in runTUI's deferred Close.
			return a, tea.Quit
		case "ctrl+t":
			a.active = (a.active + 1) % viewCount
			return a, nil
		}
		// Keys go to the active view only.
		return a.updateActive(msg)
	}

	// Everything else fans out so background fetches land regardless
	// of which tab is visible.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	cmds = append(cmds, cmd)
	a.dashboard, cmd = a.dashboard.Update(msg)
	cmds = append(cmds, cmd)
	a.graph, cmd = a.graph.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a appModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.active {
	case viewChat:
		a.chat, cmd = a.chat.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewGraph:
		a.graph, cmd = a.graph.Update(msg)
	}
	return a, cmd
}

func (a appModel) View() string {
	var tabs string
	for v := viewChat; v < viewCount; v++ {
		if v == a.active {
			tabs += a.theme.TabActive.Render(v.title())
		} else {
			tabs += a.theme.Tab.Render(v.title())
		}
	}

	var body string
	switch a.active {
	case viewChat:
		body = a.chat.View()
	case viewDashboard:
		body = a.dashboard.View()
	case viewGraph:
		body = a.graph.View()
	}
	return tabs + "\n" + body
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"qaboard/internal/cli/command"
	"qaboard/internal/cli/config"
	"qaboard/internal/cli/http"
	"qaboard/internal/cli/repl"
	"qaboard/internal/cli/state"
)

const defaultConfigPath = "configs/cli.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	baseURL := flag.String("base", "", "Override base URL")
	timeout := flag.Duration("timeout", 0, "Override HTTP timeout (e.g. 10s)")
	token := flag.String("token", "", "Override credential token")
	statePath := flag.String("state", "", "Override session state path")
	pretty := flag.Bool("pretty", false, "Pretty print JSON response")
	exec := flag.String("e", "", "Run a single command and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *statePath != "" {
		cfg.StatePath = *statePath
	}
	if *pretty {
		trueValue := true
		cfg.PrettyJSON = &trueValue
	}

	sessionState, err := state.Load(cfg.StatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load session state failed: %v\n", err)
		os.Exit(1)
	}
	if *token != "" {
		sessionState.Token = *token
	}

	client := httpclient.New(cfg.BaseURL, cfg.Timeout, func() string {
		return sessionState.Token
	})

	session := repl.New(client, command.Registry(), &sessionState, repl.Options{
		StatePath:   cfg.StatePath,
		HistoryFile: cfg.HistoryFile,
		PrettyJSON:  cfg.PrettyJSON != nil && *cfg.PrettyJSON,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if *exec != "" {
		if err := session.Execute(ctx, *exec); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := session.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/server"
)

// runServe starts the live-preview server on a deck directory.
func runServe(ctx context.Context, positionalArgs []string, flags *serveFlags, env *Environment) error {
	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg, err := loadCLIConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeRenderFlags(&flags.render, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	root, err := resolveServeRoot(positionalArgs, cfg)
	if err != nil {
		return err
	}

	renderer, err := buildRenderer(cfg)
	if err != nil {
		return err
	}

	addr := resolveServeAddr(flags.addr, cfg)
	poll := resolvePollInterval(flags.poll, cfg)

	srv := server.New(renderer, root, server.Options{
		Addr:         addr,
		PollInterval: poll,
	})

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s at http://%s\n", root, displayAddr(srv.Addr()))
		fmt.Fprintln(env.Stdout, "Press Ctrl+C to stop")
	}

	return srv.Run(ctx)
}

// resolveServeRoot determines the directory to serve from args or config.
func resolveServeRoot(args []string, cfg *config.Config) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	} else if cfg.Input.DefaultDir != "" {
		root = cfg.Input.DefaultDir
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	return root, nil
}

// resolveServeAddr determines the listen address from flag or config.
func resolveServeAddr(flagAddr string, cfg *config.Config) string {
	if flagAddr != "" {
		return flagAddr
	}
	return cfg.Serve.Addr
}

// resolvePollInterval determines the watch interval from flag or config.
func resolvePollInterval(flagPoll int, cfg *config.Config) time.Duration {
	ms := flagPoll
	if ms == 0 {
		ms = cfg.Serve.PollIntervalMS
	}
	if ms <= 0 {
		return server.DefaultPollInterval
	}
	return time.Duration(ms) * time.Millisecond
}

// displayAddr rewrites a bare-port listen address into a dialable one.
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

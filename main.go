// chunkgrid runs the grid inspector in the local terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"chunkgrid/internal/config"
	"chunkgrid/internal/inspect"
	"chunkgrid/internal/logging"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfgPath := flag.String("config", "", "Path to a config file (yaml, toml or json)")
	flag.Parse()

	if err := run(*cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	// The screen owns stderr while the inspector runs.
	if cfg.Log.File == "" {
		cfg.Log.File = "chunkgrid.log"
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	srv, err := inspect.NewServer(cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	sess := inspect.NewSession(srv.NextSessionID(), "local", screen)
	srv.AddSession(sess)
	srv.RunLoop(sess)
	srv.RemoveSession(sess)
	return nil
}

package main

import (
	"flag"
	"fmt"
	"os"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool
	var seed int64

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/pairs/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Int64Var(&seed, "seed", 0, "shuffle seed for reproducible decks (0 picks one from the clock)")
	flag.Parse()

	if showVersion {
		fmt.Printf("Pairs - Memory Card Game\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.Seed = seed

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package config

import (
	"flag"
	"os"

	"wormdetector/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-l string   address and port the local UI listens on
//	-b string   base URL of the backend API
//	-s string   path to the sqlite state file
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-l", "-b", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "l", cfg.ListenAddr, "address and port the local UI listens on")
	fs.StringVar(&cfg.BackendBaseURL, "b", cfg.BackendBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.StateDBPath, "s", cfg.StateDBPath, "path to the sqlite state file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/todokeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the account service
//	-t string   base URL of the task service
//	-b string   storage backend: remote or local
//	-d string   path of the local SQLite database
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-b", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AccountServiceURL, "a", cfg.AccountServiceURL, "base URL of the account service")
	fs.StringVar(&cfg.TaskServiceURL, "t", cfg.TaskServiceURL, "base URL of the task service")
	fs.StringVar(&cfg.StorageBackend, "b", cfg.StorageBackend, "storage backend: remote or local")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

package cfg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func GetVersion() string {
	if Version == "" {
		return "unknown"
	}
	return Version
}

const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

type Config struct {
	DataDir    string `long:"data-dir" env:"TASKLINE_DATA_DIR" description:"Directory for task data (default ~/.taskline)"`
	Backend    string `long:"backend" env:"TASKLINE_BACKEND" default:"sqlite" choice:"sqlite" choice:"json" description:"Storage backend"`
	Backups    int    `long:"backups" env:"TASKLINE_BACKUPS" default:"5" description:"Snapshot backups retained by the json backend"`
	ImportFile string `long:"import" description:"Batch-import task lines from a file and exit"`
	List       bool   `long:"list" description:"Print tasks and exit without starting the TUI"`
	ShowVer    bool   `long:"version" description:"Print version and exit"`
}

// Load parses flags and environment. A nil config with nil error
// means help was requested and printed.
func Load(args []string) (*Config, error) {
	var config Config
	parser := flags.NewParser(&config, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if config.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		config.DataDir = filepath.Join(home, ".taskline")
	}
	if config.Backups < 0 {
		config.Backups = 0
	}
	return &config, nil
}

// DatabasePath is the SQLite file location for the sqlite backend.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "taskline.db")
}

// SnapshotPath is the JSON store location for the json backend.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "tasks.json")
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/colonyops/preview/internal/core/preview"
)

type Flags struct {
	LogLevel     string
	LogFile      string
	ConfigPath   string
	DataDir      string
	ProfilerPort int
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "preview", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "preview")
}

// documentArgs turns positional file arguments into absolute file resources.
func documentArgs(args []string) ([]preview.Resource, error) {
	docs := make([]preview.Resource, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", arg, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", arg)
		}
		docs = append(docs, preview.FileResource(abs))
	}
	return docs, nil
}

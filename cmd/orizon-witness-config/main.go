// Command orizon-witness-config reads and writes a session's .witness.json
// project file: default verbosity, default dynamic seeds, and a list of
// require roots (SPEC_FULL.md §6). Grounded on cmd/orizon-config/main.go's
// ProjectConfig JSON shape and init/show/set/get/validate command surface,
// trimmed to this domain's fields.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/orizon-lang/orizon-witness/internal/cli"
)

// SessionConfig is the .witness.json shape a orizon-witness invocation may
// read to seed its driver before running -load.
type SessionConfig struct {
	Name            string            `json:"name"`
	DefaultVerbosity int              `json:"default_verbosity"`
	RequireRoots    []string          `json:"require_roots"`
	DynamicSeeds    map[string]string `json:"dynamic_seeds,omitempty"`
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		jsonOutput  = flag.Bool("json", false, "output in JSON format")
		configFile  = flag.String("config", ".witness.json", "configuration file path")
		initFlag    = flag.Bool("init", false, "initialize a new configuration file")
		validate    = flag.Bool("validate", false, "validate configuration file")
		show        = flag.Bool("show", false, "show current configuration")
		set         = flag.String("set", "", "set a dynamic seed (name=value)")
		unset       = flag.String("unset", "", "unset a dynamic seed by name")
		addRoot     = flag.String("add-root", "", "add a require root")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage a .witness.json session configuration file.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		cli.PrintVersion("orizon-witness-config", *jsonOutput)
		os.Exit(0)
	}

	switch {
	case *initFlag:
		if err := initConfig(*configFile); err != nil {
			cli.ExitWithError("failed to initialize config: %v", err)
		}

		fmt.Printf("configuration initialized: %s\n", *configFile)

	case *validate:
		if err := validateConfig(*configFile); err != nil {
			cli.ExitWithError("configuration validation failed: %v", err)
		}

		fmt.Printf("configuration is valid: %s\n", *configFile)

	case *show:
		cfg, err := loadConfig(*configFile)
		if err != nil {
			cli.ExitWithError("failed to load config: %v", err)
		}

		if *jsonOutput {
			data, _ := json.MarshalIndent(cfg, "", "  ")
			fmt.Println(string(data))
		} else {
			showHuman(cfg)
		}

	case *set != "":
		if err := setSeed(*configFile, *set); err != nil {
			cli.ExitWithError("failed to set dynamic seed: %v", err)
		}

		fmt.Printf("configuration updated: %s\n", *configFile)

	case *unset != "":
		if err := unsetSeed(*configFile, *unset); err != nil {
			cli.ExitWithError("failed to unset dynamic seed: %v", err)
		}

		fmt.Printf("configuration updated: %s\n", *configFile)

	case *addRoot != "":
		if err := addRequireRoot(*configFile, *addRoot); err != nil {
			cli.ExitWithError("failed to add require root: %v", err)
		}

		fmt.Printf("configuration updated: %s\n", *configFile)

	default:
		flag.Usage()
		os.Exit(1)
	}
}

func initConfig(configFile string) error {
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configFile)
	}

	cfg := &SessionConfig{
		Name:             filepath.Base(filepath.Dir(configFile)),
		DefaultVerbosity: 0,
		RequireRoots:     []string{},
		DynamicSeeds:     make(map[string]string),
	}

	return saveConfig(configFile, cfg)
}

func loadConfig(configFile string) (*SessionConfig, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	var cfg SessionConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func saveConfig(configFile string, cfg *SessionConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(configFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(configFile, data, 0644)
}

func validateConfig(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	if cfg.Name == "" {
		return fmt.Errorf("session name is required")
	}

	if cfg.DefaultVerbosity < 0 {
		return fmt.Errorf("default_verbosity must be non-negative")
	}

	return nil
}

func showHuman(cfg *SessionConfig) {
	fmt.Printf("Session: %s\n", cfg.Name)
	fmt.Printf("Default verbosity: %d\n", cfg.DefaultVerbosity)

	fmt.Println("Require roots:")
	for _, r := range cfg.RequireRoots {
		fmt.Printf("  %s\n", r)
	}

	if len(cfg.DynamicSeeds) > 0 {
		fmt.Println("Dynamic seeds:")

		for name, v := range cfg.DynamicSeeds {
			fmt.Printf("  %s = %s\n", name, v)
		}
	}
}

func setSeed(configFile, keyValue string) error {
	name, value, ok := strings.Cut(keyValue, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", keyValue)
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	if cfg.DynamicSeeds == nil {
		cfg.DynamicSeeds = make(map[string]string)
	}

	cfg.DynamicSeeds[name] = value

	return saveConfig(configFile, cfg)
}

func unsetSeed(configFile, name string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	delete(cfg.DynamicSeeds, name)

	return saveConfig(configFile, cfg)
}

func addRequireRoot(configFile, path string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	for _, r := range cfg.RequireRoots {
		if r == path {
			return nil
		}
	}

	cfg.RequireRoots = append(cfg.RequireRoots, path)

	return saveConfig(configFile, cfg)
}

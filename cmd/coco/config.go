package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/coco/internal/config"
)

func printConfigUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  coco config validate [--path PATH]")
	fmt.Fprintln(os.Stderr, "  coco config print [--path PATH] [--defaults]")
	fmt.Fprintln(os.Stderr, "  coco config path")
	fmt.Fprintln(os.Stderr, "  coco config init [--path PATH] [--force]")
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage()
		return 2
	}

	switch args[0] {
	case "validate":
		fs := newFlagSet("validate", "Usage: coco config validate [--path PATH]")
		path := fs.String("path", "", "Config file path (default: ~/.config/coco/config.yaml)")
		if code, ok := parseArgs(fs, args[1:], 0); !ok {
			return code
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := newFlagSet("print", "Usage: coco config print [--path PATH] [--defaults]")
		path := fs.String("path", "", "Config file path (default: ~/.config/coco/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if code, ok := parseArgs(fs, args[1:], 0); !ok {
			return code
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			var err error
			if cfg, err = loadConfig(*path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "init":
		fs := newFlagSet("init", "Usage: coco config init [--path PATH] [--force]", "", "Write the built-in defaults to the config file.")
		path := fs.String("path", "", "Config file path (default: ~/.config/coco/config.yaml)")
		force := fs.Bool("force", false, "Overwrite an existing file")
		if code, ok := parseArgs(fs, args[1:], 0); !ok {
			return code
		}
		return initConfig(*path, *force)

	case "path":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage()
		return 2
	}
}

// loadConfig loads path, or the default location when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func initConfig(path string, force bool) int {
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(os.Stderr, "%s already exists (use --force to overwrite)\n", path)
		return 1
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(path)
	return 0
}

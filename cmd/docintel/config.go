package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/model"
)

var configInitForce bool

// configCmd groups config-file maintenance verbs.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or scaffold kreuzberg config files",
}

// configInitCmd writes DefaultExtractionConfig as a starting-point
// kreuzberg.yaml, the same defaults LoadWithDiscovery falls back to when
// no config file is found.
var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write a kreuzberg.yaml scaffold populated with the built-in defaults",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite PATH if it already exists")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "kreuzberg.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if !configInitForce {
		if _, err := os.Stat(path); err == nil {
			return kerrors.NewValidationError(fmt.Sprintf("%s already exists, pass --force to overwrite", path), nil)
		}
	}

	out, err := yaml.Marshal(model.DefaultExtractionConfig())
	if err != nil {
		return kerrors.NewSerializationError("yaml", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return kerrors.NewIoError(fmt.Sprintf("failed to write %s", path), err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

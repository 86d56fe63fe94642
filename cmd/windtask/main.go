// Package main implements the windtask CLI tool.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/windtask/windtask/internal/config"
	"github.com/windtask/windtask/task"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "windtask",
	Short:        "Windtask - durable task tracking for agents and humans",
	SilenceUsage: true,
}

var rootProject string

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootProject, "project", "P", "", "Project name from the windtask config (default project if empty)")
}

// openStore resolves the selected project to a directory and opens its store.
func openStore() (*task.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	dir, err := cfg.ProjectDir(rootProject)
	if err != nil {
		return nil, err
	}
	return task.Open(task.Options{BaseDir: dir})
}

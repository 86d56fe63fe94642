package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/windtask/windtask/api"
	"github.com/windtask/windtask/internal/config"
	"github.com/windtask/windtask/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task store over HTTP JSON RPC",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the task store over the Model Context Protocol on stdio",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(serveCmd, mcpCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:7420", "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Options{
		Store:  store,
		Logger: log.New(os.Stderr, "windtask: ", log.LstdFlags),
	})
	if err != nil {
		return err
	}
	return server.Serve(serveAddr)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	server, err := mcpserver.New(mcpserver.Options{
		Config: cfg,
		Logger: log.New(os.Stderr, "windtask-mcp: ", log.LstdFlags),
	})
	if err != nil {
		return err
	}
	return server.ServeStdio()
}

// Package main provides the entry point for the ticket drafter.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ticket_agent",
	Short: "Ticket Drafter HTTP API Server",
	Long:  "Ticket Drafter converts free-form text into structured Jira-style tickets using LLM backends with model fallback.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

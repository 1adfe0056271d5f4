package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/ticket-drafter/internal/generation"
	"github.com/jonathan/ticket-drafter/internal/llm"
	"github.com/jonathan/ticket-drafter/internal/types"
)

var (
	generateInput    string
	generateType     string
	generateSections []string
	generateProvider string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single ticket from the terminal",
	Long: `Generate a structured ticket from free-form text without starting the
HTTP server. Input is read from --input or, when omitted, from stdin.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateInput, "input", "", "Free-form text to convert (stdin when omitted)")
	generateCmd.Flags().StringVar(&generateType, "type", "Task", "Ticket type: Bug, Task, or Story")
	generateCmd.Flags().StringSliceVar(&generateSections, "sections", []string{"Summary", "Description", "Acceptance Criteria"}, "Sections to include")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "Provider: openrouter or gemini (DEFAULT_PROVIDER when omitted)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	input := generateInput
	if input == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		input = string(data)
	}
	input = strings.TrimSpace(input)

	provider := types.Provider(generateProvider)
	if provider == "" {
		provider = types.Provider(os.Getenv("DEFAULT_PROVIDER"))
	}
	if provider == "" {
		provider = types.ProviderOpenRouter
	}

	sections := make([]types.Section, len(generateSections))
	for i, s := range generateSections {
		sections[i] = types.Section(strings.TrimSpace(s))
	}

	req := &types.GenerateTicketRequest{
		Input:      input,
		TicketType: types.TicketType(generateType),
		Sections:   sections,
		Provider:   provider,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	var cfg llm.ProviderConfig
	switch provider {
	case types.ProviderGemini:
		cfg = llm.LoadGeminiConfig()
	default:
		cfg = llm.LoadOpenRouterConfig()
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return err
	}

	strict, _ := strconv.ParseBool(os.Getenv("TICKET_STRICT_SCHEMA"))
	gen := generation.New(client, cfg, strict)

	ticket, err := gen.Generate(context.Background(), req)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	out, err := json.MarshalIndent(ticket, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ticket: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

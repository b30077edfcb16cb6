package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rampart-ai/rampart/internal/llm"
	"github.com/rampart-ai/rampart/internal/llm/providers"
	"github.com/rampart-ai/rampart/internal/stream"
)

var chatRole string

var chatCmd = &cobra.Command{
	Use:   "chat <prompt>",
	Short: "Generate a guarded response to a prompt",
	Long: `Chat first checks the prompt itself against the policy corpus, then
streams a generated response through the guardrail. Verified-safe text
is printed as it clears each check; if a violation emerges mid-stream,
generation is cut off and the blocking reason is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatRole, "role", "r", "", "Role the conversation runs under (required)")
	chatCmd.MarkFlagRequired("role")
}

func runChat(cmd *cobra.Command, args []string) error {
	prompt := args[0]

	application, err := buildApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	// Input-side check: a violating prompt is refused before any generation
	// spend, and an undeterminable one is refused rather than waved through.
	verdict := application.engine.Evaluate(cmd.Context(), prompt, chatRole)
	if !verdict.IsSafe() {
		return fmt.Errorf("prompt rejected: %s", verdict.Reason)
	}

	generator, err := providers.New(providers.Config{
		Provider: application.cfg.Generator.Provider,
		Model:    application.cfg.Generator.Model,
		BaseURL:  application.cfg.Generator.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to build generator provider: %w", err)
	}

	genCtx, cancelGen := context.WithCancel(cmd.Context())
	defer cancelGen()

	upstream, err := generator.Stream(genCtx, llm.CompletionRequest{
		Model:       application.cfg.Generator.Model,
		Temperature: application.cfg.Generator.Temperature,
		Messages: []llm.Message{
			llm.NewUserMessage(prompt),
		},
	})
	if err != nil {
		return fmt.Errorf("generation failed to start: %w", err)
	}

	ctrl := stream.NewController(application.engine, chatRole, stream.Config{
		InitialThreshold: application.cfg.Stream.InitialThreshold,
		MaxThreshold:     application.cfg.Stream.MaxThreshold,
		RetryDelay:       application.cfg.Stream.RetryDelay,
	}, application.logger)

	out := cmd.OutOrStdout()
	for event := range stream.Run(cmd.Context(), ctrl, upstream, cancelGen, application.logger) {
		switch event.Kind {
		case stream.EventSafeChunk:
			fmt.Fprint(out, event.Text)

		case stream.EventBlocked:
			fmt.Fprintln(out)
			return fmt.Errorf("response blocked: %s", event.Verdict.Reason)

		case stream.EventError:
			fmt.Fprintln(out)
			return fmt.Errorf("generation failed: %w", event.Err)

		case stream.EventDone:
			fmt.Fprintln(out)
		}
	}
	return nil
}

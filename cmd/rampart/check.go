package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var checkRole string

var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Evaluate a single text against the policy corpus",
	Long: `Check retrieves the policies visible to the given role, asks the judge
model whether the text violates any of them, and prints the verdict as
JSON. Text is read from stdin when no argument is given.

The command exits 0 for SAFE, 1 for HARMFUL, and 2 when safety could
not be determined.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkRole, "role", "r", "", "Role the text is evaluated for (required)")
	checkCmd.MarkFlagRequired("role")
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := readCheckInput(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to evaluate")
	}

	application, err := buildApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	verdict := application.engine.Evaluate(cmd.Context(), text, checkRole)

	out, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	switch {
	case verdict.IsHarmful():
		os.Exit(1)
	case verdict.IsError():
		os.Exit(2)
	}
	return nil
}

func readCheckInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

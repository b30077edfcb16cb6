package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rampart-ai/rampart/internal/config"
	"github.com/rampart-ai/rampart/internal/llm"
	"github.com/rampart-ai/rampart/internal/llm/providers"
	"github.com/rampart-ai/rampart/internal/policy"
	"github.com/rampart-ai/rampart/internal/retrieval"
	"github.com/rampart-ai/rampart/internal/types"
)

// healthCheckTimeout bounds each individual subsystem check.
const healthCheckTimeout = 5 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the health of the guardrail's dependencies",
	Long: `Status checks each subsystem the guardrail depends on: the judge
provider, the generator provider, and the retrieval backend. It prints
one line per subsystem and exits non-zero when any of them is
unavailable, so it can serve as a readiness check.`,
	RunE: runStatus,
}

// componentStatus pairs a subsystem name with its health check result.
type componentStatus struct {
	Name   string
	Health types.HealthStatus
}

func runStatus(cmd *cobra.Command, args []string) error {
	application, err := buildApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	statuses := []componentStatus{
		{
			Name:   fmt.Sprintf("judge (%s)", cfg.Judge.Provider),
			Health: providerHealth(cmd.Context(), application.judgeProvider),
		},
		{
			Name:   fmt.Sprintf("generator (%s)", cfg.Generator.Provider),
			Health: generatorHealth(cmd.Context(), cfg.Generator),
		},
		{
			Name:   fmt.Sprintf("retrieval (%s)", cfg.Retrieval.Backend),
			Health: searchHealth(cmd.Context(), application.search),
		},
	}

	out := cmd.OutOrStdout()
	for _, s := range statuses {
		fmt.Fprintln(out, formatStatusLine(s))
	}

	overall := overallHealth(statuses)
	fmt.Fprintln(out, formatStatusLine(componentStatus{Name: "overall", Health: overall}))

	if !overall.IsHealthy() {
		return fmt.Errorf("one or more subsystems unavailable")
	}
	return nil
}

// providerHealth runs a bounded health check against an LLM provider.
func providerHealth(ctx context.Context, provider llm.Provider) types.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return provider.Health(ctx)
}

// generatorHealth builds the generator provider and checks it. Construction
// failure (missing API key, unknown provider) reports as unhealthy rather
// than failing the whole status command.
func generatorHealth(ctx context.Context, gen config.GeneratorConfig) types.HealthStatus {
	provider, err := providers.New(providers.Config{
		Provider: gen.Provider,
		Model:    gen.Model,
		BaseURL:  gen.BaseURL,
	})
	if err != nil {
		return types.Unhealthy(err.Error())
	}
	return providerHealth(ctx, provider)
}

// searchHealth verifies the retrieval backend answers queries. An empty
// result is healthy; only a transport or backend error is not.
func searchHealth(ctx context.Context, client retrieval.SearchClient) types.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if _, err := client.Search(ctx, "health check", []string{policy.RoleTagAll}, 1); err != nil {
		return types.Unhealthy(err.Error())
	}
	return types.Healthy("")
}

// formatStatusLine renders one subsystem's health as a fixed-width line.
func formatStatusLine(s componentStatus) string {
	line := fmt.Sprintf("%-22s %s", s.Name+":", s.Health.State)
	if s.Health.Message != "" {
		line += " - " + s.Health.Message
	}
	return line
}

// overallHealth folds subsystem results into one status: unhealthy if any
// subsystem is unhealthy, degraded if any is degraded, healthy otherwise.
func overallHealth(statuses []componentStatus) types.HealthStatus {
	degraded := false
	for _, s := range statuses {
		switch s.Health.State {
		case types.HealthStateUnhealthy:
			return types.Unhealthy(s.Name + " unavailable")
		case types.HealthStateDegraded:
			degraded = true
		}
	}
	if degraded {
		return types.Degraded("")
	}
	return types.Healthy("")
}

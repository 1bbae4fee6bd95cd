// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/petjournal/guardian/internal/config"
)

// statusTimeout bounds each health probe.
const statusTimeout = 3 * time.Second

// CheckStatus holds the result of a single health probe.
type CheckStatus struct {
	Check string `json:"check"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// newStatusCmd creates the status subcommand with all flags configured.
func newStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show health of a running guardian service",
		Long:  `Probe the liveness and readiness endpoints of a running guardian service.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().String("metrics-addr", config.Default().MetricsAddr, "metrics/health HTTP address to probe")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	svcCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	checks := []CheckStatus{
		probe(cmd.Context(), svcCfg.MetricsAddr, "liveness"),
		probe(cmd.Context(), svcCfg.MetricsAddr, "readiness"),
	}

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(formatStatusTable(checks))
	return nil
}

// probe hits a /healthz endpoint on the observability server.
func probe(ctx context.Context, addr, check string) CheckStatus {
	status := CheckStatus{Check: check}

	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	url := fmt.Sprintf("http://%s/healthz/%s", addr, check)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		status.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return status
	}

	status.OK = true
	return status
}

func formatStatusTable(checks []CheckStatus) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tSTATUS\tDETAIL")
	for _, c := range checks {
		state := "ok"
		if !c.OK {
			state = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Check, state, c.Error)
	}
	_ = w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}

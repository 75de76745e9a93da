package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadpipe/leadpipe/internal/domain"
	"github.com/leadpipe/leadpipe/internal/http/middleware"
	"github.com/leadpipe/leadpipe/pkg/crypto"
)

var processPendingCmd = &cobra.Command{
	Use:   "process-pending",
	Short: "Drive one batch of pending and failed lead events",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		worker := a.GetLeadWorker()
		if limit <= 0 {
			limit = worker.GetConfig().BatchSize
		}

		result, err := worker.ProcessPending(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("process pending: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var recoverStaleCmd = &cobra.Command{
	Use:   "recover-stale",
	Short: "Return lead events stuck in processing to pending",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		n, err := a.GetLeadWorker().RecoverStale(cmd.Context())
		if err != nil {
			return fmt.Errorf("recover stale: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %d stale lead events\n", n)
		return nil
	},
}

var retryCmd = &cobra.Command{
	Use:   "retry <raw-event-id>",
	Short: "Reset a lead event's retry budget and drive it once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		result, err := a.GetLeadEventService().Retry(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("retry: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count lead events by status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)

		stats, err := a.GetLeadEventService().GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		formatStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the operator API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		role, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if subject == "" {
			return fmt.Errorf("--subject must not be empty")
		}

		token, err := middleware.IssueOperatorToken(cfg.Security.JWTSecret, subject, role, ttl)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

// signWebhookCmd prints the X-Hub-Signature-256 value for a delivery body,
// for replaying captured deliveries against the webhook receiver
var signWebhookCmd = &cobra.Command{
	Use:   "sign-webhook <body-file>",
	Short: "Compute the webhook signature header for a delivery body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Platform.AppSecret == "" {
			return fmt.Errorf("PLATFORM_APP_SECRET is not set")
		}

		body, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), crypto.SignaturePrefix+crypto.ComputeHMAC256(body, cfg.Platform.AppSecret))
		return nil
	},
}

func init() {
	processPendingCmd.Flags().Int("limit", 0, "maximum rows to drive (0 uses PIPELINE_BATCH_SIZE)")

	tokenCmd.Flags().String("subject", "", "operator identity recorded in the token")
	tokenCmd.Flags().String("role", "operator", "operator role")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(processPendingCmd, recoverStaleCmd, retryCmd, statsCmd, tokenCmd, signWebhookCmd)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatStats(w io.Writer, stats *domain.LeadEventStats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tCOUNT")
	fmt.Fprintf(tw, "pending\t%d\n", stats.Pending)
	fmt.Fprintf(tw, "processing\t%d\n", stats.Processing)
	fmt.Fprintf(tw, "completed\t%d\n", stats.Completed)
	fmt.Fprintf(tw, "failed\t%d\n", stats.Failed)
	fmt.Fprintf(tw, "exhausted\t%d\n", stats.Exhausted)
	_ = tw.Flush()
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Inspect and replay payment event ledgers",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(publishCmd())

	return rootCmd
}

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile a ledger file and print its summary",
		Args:  cobra.NoArgs,
		RunE:  runReconcile,
	}

	cmd.Flags().StringP("file", "f", "", "Ledger file (.json, .yaml, .yml or - for JSON on stdin)")
	cmd.Flags().StringP("output", "o", "json", "Output format (json, yaml)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a ledger file is consistent",
		Long: `Validate runs the full reconciliation over a ledger file and exits
non-zero with the first violated rule when the ledger is inconsistent.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}

	cmd.Flags().StringP("file", "f", "", "Ledger file (.json, .yaml, .yml or - for JSON on stdin)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the events of a ledger file to Kafka for one order",
		Args:  cobra.NoArgs,
		RunE:  runPublish,
	}

	cmd.Flags().StringP("file", "f", "", "Ledger file (.json, .yaml, .yml or - for JSON on stdin)")
	cmd.Flags().String("order", "", "Order ID used as the message key")
	cmd.Flags().StringSlice("brokers", []string{"localhost:9092"}, "Kafka brokers")
	cmd.Flags().String("topic", "payment-events", "Kafka topic")
	cmd.Flags().Bool("check", true, "Refuse to publish an inconsistent ledger")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("order")

	return cmd
}

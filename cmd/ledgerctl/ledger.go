package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/history"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/infrastructure/messaging/kafka"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/interfaces/dto"
	"github.com/go-playground/validator"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func runReconcile(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	output, _ := cmd.Flags().GetString("output")

	ledger, err := loadLedger(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	summary, err := reconcile(ledger)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), output, dto.FromSummary(summary))
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	ledger, err := loadLedger(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	if _, err := reconcile(ledger); err != nil {
		return fmt.Errorf("ledger %s is inconsistent: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ledger %s is consistent (%d events, %d instruments)\n",
		path, len(ledger.Events), len(ledger.Instruments))
	return nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	orderID, _ := cmd.Flags().GetString("order")
	brokers, _ := cmd.Flags().GetStringSlice("brokers")
	topic, _ := cmd.Flags().GetString("topic")
	check, _ := cmd.Flags().GetBool("check")

	ledger, err := loadLedger(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	if check {
		if _, err := reconcile(ledger); err != nil {
			return fmt.Errorf("refusing to publish inconsistent ledger: %w", err)
		}
	}

	publisher := kafka.NewPublisher(kafka.NewWriter(brokers, topic))
	defer publisher.Close()

	if err := publisher.Publish(cmd.Context(), orderID, ledger.Events); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "published %d events for order %s to %s\n", len(ledger.Events), orderID, topic)
	return nil
}

// loadLedger reads a ledger from path. The format follows the extension;
// "-" reads JSON from stdin.
func loadLedger(stdin io.Reader, path string) (dto.LedgerDTO, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return dto.LedgerDTO{}, fmt.Errorf("read ledger: %w", err)
	}

	var ledger dto.LedgerDTO
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &ledger)
	case ".json", "":
		err = json.Unmarshal(raw, &ledger)
	default:
		return dto.LedgerDTO{}, fmt.Errorf("unsupported ledger format %q", ext)
	}
	if err != nil {
		return dto.LedgerDTO{}, fmt.Errorf("parse ledger %s: %w", path, err)
	}

	if err := validator.New().Struct(ledger); err != nil {
		return dto.LedgerDTO{}, fmt.Errorf("invalid ledger %s: %w", path, err)
	}
	return ledger, nil
}

func reconcile(ledger dto.LedgerDTO) (history.Summary, error) {
	events, instruments, err := ledger.ToDomain()
	if err != nil {
		return history.Summary{}, err
	}
	return history.New().Reconcile(events, history.MergeInstruments(instruments, events))
}

func render(w io.Writer, format string, summary dto.SummaryDTO) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/interfaces/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const consistentYAML = `
events:
  - guid: r1
    type: RESERVE
    status: APPROVED
    amount: "100"
    currency: CAD
    date: 2026-05-01T10:00:00Z
    instrument: {guid: opi-1, limit: "150", currency: CAD}
  - guid: c1
    parent_guid: r1
    type: CHARGE
    status: APPROVED
    amount: "75"
    currency: CAD
    date: 2026-05-01T10:05:00Z
    instrument: {guid: opi-1, limit: "150", currency: CAD}
  - guid: rc1
    parent_guid: c1
    type: REVERSE_CHARGE
    status: APPROVED
    amount: "25"
    currency: CAD
    date: 2026-05-02T09:00:00Z
`

const overchargedJSON = `{
  "events": [
    {"guid": "r1", "type": "RESERVE", "status": "APPROVED", "amount": "10", "currency": "CAD", "date": "2026-05-01T10:00:00Z"},
    {"guid": "c1", "parent_guid": "r1", "type": "CHARGE", "status": "APPROVED", "amount": "11", "currency": "CAD", "date": "2026-05-01T10:01:00Z"}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReconcileCmd_YAML(t *testing.T) {
	path := writeFile(t, "ledger.yaml", consistentYAML)

	out, err := execute(t, "", "reconcile", "-f", path)
	require.NoError(t, err)

	var summary dto.SummaryDTO
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "CAD", summary.Currency)
	assert.Equal(t, "0", summary.AvailableReserved)
	assert.Equal(t, "50", summary.Charged)
	assert.Equal(t, "0", summary.Refunded)
	require.Len(t, summary.Refundable, 1)
	assert.Equal(t, "c1", summary.Refundable[0].EventGUID)
	assert.Equal(t, "50", summary.Refundable[0].Amount)
	require.Len(t, summary.Reservable, 1)
	assert.Equal(t, "opi-1", summary.Reservable[0].InstrumentGUID)
	assert.Equal(t, "100", summary.Reservable[0].Amount)
}

func TestReconcileCmd_YAMLOutputFromStdin(t *testing.T) {
	ledger := `{"events": [{"guid": "r1", "type": "RESERVE", "status": "APPROVED", "amount": "5", "currency": "USD", "date": "2026-05-01T10:00:00Z"}]}`

	out, err := execute(t, ledger, "reconcile", "-f", "-", "-o", "yaml")
	require.NoError(t, err)

	var summary dto.SummaryDTO
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "USD", summary.Currency)
	assert.Equal(t, "5", summary.AvailableReserved)
}

func TestReconcileCmd_Errors(t *testing.T) {
	t.Run("inconsistent ledger", func(t *testing.T) {
		_, err := execute(t, "", "reconcile", "-f", writeFile(t, "ledger.json", overchargedJSON))

		assert.ErrorIs(t, err, domain.ErrInsufficientAvailable)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := execute(t, "", "reconcile", "-f", writeFile(t, "ledger.toml", "events = []"))

		assert.ErrorContains(t, err, "unsupported ledger format")
	})

	t.Run("missing field", func(t *testing.T) {
		path := writeFile(t, "ledger.json", `{"events": [{"guid": "r1", "type": "RESERVE", "amount": "5", "currency": "CAD"}]}`)

		_, err := execute(t, "", "reconcile", "-f", path)

		assert.ErrorContains(t, err, "invalid ledger")
	})

	t.Run("file flag is required", func(t *testing.T) {
		_, err := execute(t, "", "reconcile")

		assert.Error(t, err)
	})

	t.Run("unknown output format", func(t *testing.T) {
		_, err := execute(t, "", "reconcile", "-f", writeFile(t, "ledger.yaml", consistentYAML), "-o", "xml")

		assert.ErrorContains(t, err, "unsupported output format")
	})
}

func TestValidateCmd(t *testing.T) {
	out, err := execute(t, "", "validate", "-f", writeFile(t, "ledger.yml", consistentYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "is consistent (3 events, 0 instruments)")

	_, err = execute(t, "", "validate", "-f", writeFile(t, "ledger.json", overchargedJSON))
	assert.ErrorContains(t, err, "is inconsistent")
	assert.ErrorIs(t, err, domain.ErrInsufficientAvailable)
}

func TestPublishCmd_RefusesInconsistentLedger(t *testing.T) {
	_, err := execute(t, "", "publish", "-f", writeFile(t, "ledger.json", overchargedJSON), "--order", "order-1")

	assert.ErrorContains(t, err, "refusing to publish")
}

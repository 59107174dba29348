package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-engine/adapters/storage"
	"quote-engine/core/quote"
	"quote-engine/core/types"
	"quote-engine/internal/config"
)

// resetFlags restores every flag so state does not leak between runs
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with args against a memory-backed config
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func useConfig(t *testing.T, storageCfg storage.Config) {
	t.Helper()
	prev := config.Get()
	cfg := config.Default()
	cfg.Storage = storageCfg
	cfg.Output.Color = false
	config.Set(cfg)
	t.Cleanup(func() { config.Set(prev) })
}

func TestVersion(t *testing.T) {
	useConfig(t, storage.Config{Backend: storage.BackendMemory})
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestPlans(t *testing.T) {
	useConfig(t, storage.Config{Backend: storage.BackendMemory})

	out, err := run(t, "plans", "--format", "json")
	require.NoError(t, err)
	var plans []types.PricingPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plans))
	assert.NotEmpty(t, plans)

	out, err = run(t, "plans")
	require.NoError(t, err)
	assert.Contains(t, out, "Plan Básico")

	_, err = run(t, "plans", "--format", "html")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	useConfig(t, storage.Config{Backend: storage.BackendMemory})

	out, err := run(t, "compare", "--base", "150000")
	require.NoError(t, err)
	assert.Contains(t, out, "$127.500")

	_, err = run(t, "compare")
	assert.Error(t, err, "--base is required")

	_, err = run(t, "compare", "--base", "-5")
	assert.Error(t, err)

	_, err = run(t, "compare", "--base", "1000000000000000001")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	useConfig(t, storage.Config{Backend: storage.BackendMemory})

	out, err := run(t, "validate", "--plan", "basico", "--value", "2000000")
	require.NoError(t, err)
	assert.Contains(t, out, "cubre un proyecto de $2.000.000")

	out, err = run(t, "validate", "--plan", "basico", "--value", "9000000")
	require.Error(t, err)
	assert.Contains(t, out, "cubre proyectos de hasta $2.500.000")
	assert.Contains(t, out, "Plan recomendado")

	_, err = run(t, "validate", "--plan", "platinum", "--value", "9000000")
	assert.Error(t, err)
}

func TestCalculate(t *testing.T) {
	useConfig(t, storage.Config{Backend: storage.BackendMemory})

	out, err := run(t, "calculate", "--value", "1000000", "--billing", "annual", "--format", "json")
	require.NoError(t, err)

	want, err := quote.Default.Calculate(quote.Selection{
		PlanID:       "basico",
		ProjectValue: 1000000,
		BillingCycle: types.BillingAnnual,
		Complexity:   types.ComplexityMedium,
		Material:     types.MaterialStandard,
		Brand:        types.BrandStandard,
		Urgency:      types.UrgencyNormal,
	})
	require.NoError(t, err)

	var got struct {
		Breakdown types.ProjectPriceBreakdown `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, want.Breakdown.FinalPrice, got.Breakdown.FinalPrice)
	assert.Equal(t, types.BillingAnnual, got.Breakdown.BillingCycle)

	_, err = run(t, "calculate", "--complexity", "huge")
	assert.Error(t, err)

	_, err = run(t, "calculate", "--value", "100")
	assert.Error(t, err, "value below the calculator bounds")
}

func TestCalculatePinnedPlan(t *testing.T) {
	useConfig(t, storage.Config{Backend: storage.BackendMemory})

	out, err := run(t, "calculate", "--plan", "basico", "--value", "9000000", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "Plan Básico")
	assert.Contains(t, out, "cubre proyectos de hasta $2.500.000")
}

func TestCalculateFromFile(t *testing.T) {
	useConfig(t, storage.Config{Backend: storage.BackendMemory})

	path := filepath.Join(t.TempDir(), "project.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
project "bodega" {
  client  = "Constructora Andes"
  value   = 4500000
  billing = "quarterly"
}

project "oficina" {
  value = 800000
}
`), 0644))

	out, err := run(t, "calculate", "--file", path, "--project", "bodega", "--format", "json")
	require.NoError(t, err)
	var got struct {
		Selection quote.Selection `json:"selection"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, int64(4500000), got.Selection.ProjectValue)
	assert.Equal(t, types.BillingQuarterly, got.Selection.BillingCycle)

	// a flag overrides the file
	out, err = run(t, "calculate", "--file", path, "--project", "bodega", "--billing", "annual", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, types.BillingAnnual, got.Selection.BillingCycle)

	_, err = run(t, "calculate", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bodega, oficina")

	_, err = run(t, "calculate", "--file", path, "--project", "galpon")
	assert.Error(t, err)
}

func TestSavedQuotes(t *testing.T) {
	useConfig(t, storage.Config{
		Backend: storage.BackendSQLite,
		DSN:     filepath.Join(t.TempDir(), "quotes.db"),
	})

	_, err := run(t, "calculate", "--value", "1000000", "--save")
	require.Error(t, err, "--save needs --client")

	out, err := run(t, "calculate", "--value", "1000000", "--save", "--client", "Constructora Andes", "--format", "json")
	require.NoError(t, err)
	var saved struct {
		SavedID string `json:"saved_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &saved))
	require.NotEmpty(t, saved.SavedID)

	out, err = run(t, "quotes", "list", "--json")
	require.NoError(t, err)
	var list []*storage.Quote
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, saved.SavedID, list[0].ID)

	out, err = run(t, "quotes", "show", saved.SavedID)
	require.NoError(t, err)
	assert.Contains(t, out, "Constructora Andes")
	assert.Contains(t, out, "Precio base del plan")

	_, err = run(t, "quotes", "delete", saved.SavedID)
	require.NoError(t, err)
	_, err = run(t, "quotes", "show", saved.SavedID)
	assert.Error(t, err)

	out, err = run(t, "quotes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved quotes")
}

func TestConfigInit(t *testing.T) {
	useConfig(t, storage.Config{Backend: storage.BackendMemory})
	path := filepath.Join(t.TempDir(), "quote-engine.yaml")

	_, err := run(t, "config", "init", path)
	require.NoError(t, err)
	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Calculator, loaded.Calculator)

	_, err = run(t, "config", "init", path)
	assert.Error(t, err)
	_, err = run(t, "config", "init", path, "--force")
	assert.NoError(t, err)

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "calculator:"), out)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tokq/internal/querylang"
	"tokq/internal/store"
)

// stripComments drops the leading comment lines of dry-run output.
func stripComments(output string) string {
	lines := strings.Split(output, "\n")
	for len(lines) > 0 && strings.HasPrefix(lines[0], "#") {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

func openCmdTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := store.DefaultConfig().WithPath(filepath.Join(t.TempDir(), "views.db"))
	s, err := store.OpenWithConfig(cfg, testChecker(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if closeErr := s.Close(); closeErr != nil {
			t.Logf("Warning: failed to close store: %v", closeErr)
		}
	})
	return s
}

func TestDryRunYAMLOutput(t *testing.T) {
	cmdFlags := &CommandFlags{
		ViewName:        "tight books",
		ViewDescription: "narrow spreads on live markets",
		ViewTags:        "books, live,",
		Order:           "MARKET_bestAsk-MARKET_bestBid",
		Filter:          "MARKET_acceptingOrders&MARKET_spread<0.05",
	}

	var buf bytes.Buffer
	require.NoError(t, handleDryRun(&buf, testChecker(), cmdFlags))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "# tokq view configuration\n"))

	var cfg ViewConfig
	require.NoError(t, yaml.Unmarshal([]byte(stripComments(output)), &cfg), "output was: %s", output)
	assert.Equal(t, "tight books", cfg.Name)
	assert.Equal(t, "narrow spreads on live markets", cfg.Description)
	assert.Equal(t, []string{"books", "live"}, cfg.Tags)
	assert.Equal(t, "(MARKET_bestAsk - MARKET_bestBid)", cfg.Order)
	assert.Equal(t, "(MARKET_acceptingOrders & (MARKET_spread < 0.05))", cfg.Filter)
}

func TestDryRunCollectionOutput(t *testing.T) {
	cmdFlags := &CommandFlags{ViewName: "recent", Order: "MARKET_createdAt", Collection: true}

	var buf bytes.Buffer
	require.NoError(t, handleDryRun(&buf, testChecker(), cmdFlags))
	assert.True(t, strings.HasPrefix(buf.String(), "# tokq view collection\n"))

	var collection ViewCollection
	require.NoError(t, yaml.Unmarshal([]byte(stripComments(buf.String())), &collection))
	require.Len(t, collection.Views, 1)
	assert.Equal(t, "recent", collection.Views[0].Name)
	assert.Equal(t, "MARKET_createdAt", collection.Views[0].Order)
}

func TestDryRunRejectsInvalidView(t *testing.T) {
	cmdFlags := &CommandFlags{ViewName: "bad", Filter: "MARKET_bestBid"}

	var buf bytes.Buffer
	err := handleDryRun(&buf, testChecker(), cmdFlags)
	require.Error(t, err)
	assert.ErrorIs(t, err, querylang.ErrNotPredicate)
	assert.Empty(t, buf.String())
}

func TestParseViewConfigs(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		wantNames []string
		wantErr   bool
	}{
		{
			name:      "single view",
			input:     "name: one\norder: MARKET_bestBid\n",
			wantNames: []string{"one"},
		},
		{
			name: "collection",
			input: `views:
  - name: one
    filter: MARKET_negRisk
  - name: two
    order: MARKET_endDate
`,
			wantNames: []string{"one", "two"},
		},
		{
			name:    "no views",
			input:   "description: nothing here\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			input:   "name: [unclosed\n",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			configs, err := parseViewConfigs([]byte(tc.input))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			names := make([]string, 0, len(configs))
			for _, cfg := range configs {
				names = append(names, cfg.Name)
			}
			assert.Equal(t, tc.wantNames, names)
		})
	}
}

func TestReadViewConfigs(t *testing.T) {
	stdin := strings.NewReader("name: piped\nfilter: MARKET_feesEnabled\n")
	configs, err := readViewConfigs("-", stdin)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "piped", configs[0].Name)

	path := filepath.Join(t.TempDir(), "views.yaml")
	require.NoError(t, os.WriteFile(path, []byte("views:\n  - name: filed\n"), 0o600))
	configs, err = readViewConfigs(path, nil)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "filed", configs[0].Name)

	_, err = readViewConfigs(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestApplyViewConfigs(t *testing.T) {
	s := openCmdTestStore(t)
	ctx := testContext(t)

	configs := []ViewConfig{
		{Name: "first", Order: "MARKET_bestBid*2", Filter: "MARKET_negRisk & !MARKET_feesEnabled"},
		{Name: "second", Order: "MARKET_question"},
		{Name: "third", Filter: "MARKET_acceptingOrders"},
	}

	var buf bytes.Buffer
	err := applyViewConfigs(ctx, &buf, s, configs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save view 2 (second)")
	assert.True(t, store.IsValidation(err))
	assert.Contains(t, buf.String(), "saved view first (")

	views, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "(MARKET_bestBid * 2)", views[0].Order)
	assert.Equal(t, "number", views[0].OrderKind)
}

func TestApplyViewConfigsTwiceUpdatesInPlace(t *testing.T) {
	s := openCmdTestStore(t)
	ctx := testContext(t)

	configs := []ViewConfig{
		{Name: "spread", Order: "MARKET_spread", Filter: "MARKET_acceptingOrders"},
		{Name: "depth", Order: "BOOK_DEPTH"},
	}

	var first bytes.Buffer
	require.NoError(t, applyViewConfigs(ctx, &first, s, configs))
	assert.Contains(t, first.String(), "saved view spread (")

	before, err := s.Get(ctx, "spread")
	require.NoError(t, err)

	configs[0].Filter = "!MARKET_negRisk"
	var second bytes.Buffer
	require.NoError(t, applyViewConfigs(ctx, &second, s, configs))
	assert.Contains(t, second.String(), "updated view spread ("+before.ID+")")
	assert.Contains(t, second.String(), "updated view depth (")

	views, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	after, err := s.Get(ctx, "spread")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
	assert.Equal(t, "!(MARKET_negRisk)", after.Filter)
}

func TestPrepareViewConfigs(t *testing.T) {
	prepared, err := prepareViewConfigs(testChecker(), []ViewConfig{
		{Name: "a", Filter: "!MARKET_negRisk"},
		{Name: "b", Order: "2024-01-15"},
	})
	require.NoError(t, err)
	assert.Equal(t, "!(MARKET_negRisk)", prepared[0].Filter)
	assert.Equal(t, "2024-01-15", prepared[1].Order)

	_, err = prepareViewConfigs(testChecker(), []ViewConfig{{Name: "c", Filter: "foo"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, querylang.ErrUnknownField)
}

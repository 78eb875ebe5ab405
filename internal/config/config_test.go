package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, Validate(cfg))
	assert.Equal(t, "America/Bogota", cfg.Timezone)
	assert.Equal(t, 25, cfg.TopProducts)
	assert.Equal(t, 10, cfg.SummaryHead)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Empty(t, cfg.Database)
}

func TestDecode_OverridesOnlyPresentKeys(t *testing.T) {
	cfg, err := Decode(strings.NewReader("top_products: 5\ndatabase: runs.db\n"), Default())
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.TopProducts)
	assert.Equal(t, "runs.db", cfg.Database)
	assert.Equal(t, "America/Bogota", cfg.Timezone)
}

func TestDecode_EmptyDocumentKeepsBase(t *testing.T) {
	cfg, err := Decode(strings.NewReader("  \n"), Default())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("top_product: 5\n"), Default())
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(Default(), lookupFrom(map[string]string{
		"ORDERLENS_TIMEZONE":     "UTC",
		"ORDERLENS_TOP_PRODUCTS": "7",
		"ORDERLENS_OUTPUT_DIR":   "/tmp/out",
	}))
	require.NoError(t, err)

	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 7, cfg.TopProducts)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, 10, cfg.SummaryHead)
}

func TestFromEnv_BadNumber(t *testing.T) {
	_, err := FromEnv(Default(), lookupFrom(map[string]string{"ORDERLENS_SUMMARY_HEAD": "ten"}))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate_RejectsNonPositiveTopProducts(t *testing.T) {
	for _, n := range []int{0, -3} {
		cfg := Default()
		cfg.TopProducts = n
		assert.ErrorIs(t, Validate(cfg), ErrInvalid, "top_products=%d", n)
	}
}

func TestValidate_RejectsEmptyOutputDir(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = ""
	assert.ErrorIs(t, Validate(cfg), ErrInvalid)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_products: 5\nsummary_head: 3\n"), 0o644))
	t.Setenv("ORDERLENS_TOP_PRODUCTS", "9")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.TopProducts)
	assert.Equal(t, 3, cfg.SummaryHead)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_products: 0\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ORDERLENS_DATABASE=from-dotenv.db\n"), 0o644))
	t.Setenv("ORDERLENS_DATABASE", "")
	os.Unsetenv("ORDERLENS_DATABASE")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-dotenv.db", os.Getenv("ORDERLENS_DATABASE"))
}

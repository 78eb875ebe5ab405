// Package config resolves orderlens settings from defaults, an optional
// YAML file, a .env file and ORDERLENS_* environment variables, in that
// order of precedence (later wins). The merged result is validated against
// an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/orderlens/internal/enrich"
	"github.com/roach88/orderlens/internal/report"
	"github.com/roach88/orderlens/internal/segment"
)

//go:embed schema.cue
var schemaCUE string

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ORDERLENS_"

// DefaultOutputDir is where artifacts are written when nothing else is set.
const DefaultOutputDir = "artifacts"

// ErrInvalid is returned when the merged configuration fails validation.
var ErrInvalid = errors.New("invalid config")

// Config holds the resolved settings for one run.
type Config struct {
	Timezone    string `yaml:"timezone" json:"timezone"`
	TopProducts int    `yaml:"top_products" json:"top_products"`
	SummaryHead int    `yaml:"summary_head" json:"summary_head"`
	RulesFile   string `yaml:"rules_file" json:"rules_file"`
	OutputDir   string `yaml:"output_dir" json:"output_dir"`
	Database    string `yaml:"database" json:"database"`
}

// Default returns the built-in settings. The run store is disabled until
// a database path is configured.
func Default() Config {
	return Config{
		Timezone:    enrich.DefaultTimezone,
		TopProducts: segment.DefaultTopProducts,
		SummaryHead: report.DefaultSummaryHead,
		OutputDir:   DefaultOutputDir,
	}
}

// Load resolves the configuration. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if cfg, err = Decode(f, cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg, err := FromEnv(cfg, os.LookupEnv)
	if err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from .env files into the process environment
// without overriding variables that are already set. Missing files are
// ignored. With no arguments it reads ".env" in the working directory.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Decode reads YAML onto base. Keys absent from the document keep their
// base value; unknown keys are rejected.
func Decode(r io.Reader, base Config) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return base, nil
	}

	cfg := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// comment-only documents decode as EOF
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return cfg, nil
}

// FromEnv applies ORDERLENS_* overrides found through lookup.
func FromEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, name, err)
		}
		*dst = n
		return nil
	}

	str("TIMEZONE", &cfg.Timezone)
	str("RULES_FILE", &cfg.RulesFile)
	str("OUTPUT_DIR", &cfg.OutputDir)
	str("DATABASE", &cfg.Database)
	if err := num("TOP_PRODUCTS", &cfg.TopProducts); err != nil {
		return Config{}, err
	}
	if err := num("SUMMARY_HEAD", &cfg.SummaryHead); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against the embedded CUE schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.Unify(ctx.Encode(cfg))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, cueerrors.Details(err, nil))
	}
	return nil
}

package fxstore

import (
	"encoding/json"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/fxstore/internal/importer"
	"github.com/rxtech-lab/fxstore/internal/version"
	"github.com/rxtech-lab/fxstore/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PartitionMode selects how Store.Partition splits a time range.
type PartitionMode string

const (
	// PartitionByTime splits into sub-ranges of equal time span.
	PartitionByTime PartitionMode = "time"
	// PartitionByRows places boundaries so each sub-range holds about the same number of bars.
	PartitionByRows PartitionMode = "rows"
)

// Config is the store configuration, usually loaded from YAML.
type Config struct {
	Version       string          `yaml:"version" json:"version" jsonschema:"title=Version,description=Library version the file was written for,required" validate:"required"`
	LogLevel      string          `yaml:"logLevel" json:"logLevel,omitempty" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info" validate:"omitempty,oneof=debug info warn error"`
	ImportWorkers int             `yaml:"importWorkers" json:"importWorkers,omitempty" jsonschema:"title=Import Workers,description=Files imported concurrently by ImportFiles,minimum=1,default=4" validate:"min=1"`
	Partition     PartitionConfig `yaml:"partition" json:"partition,omitempty" jsonschema:"title=Partition"`
	Sources       []SourceConfig  `yaml:"sources" json:"sources,omitempty" jsonschema:"title=Sources,description=Files loaded at startup" validate:"dive"`
}

// PartitionConfig configures range partitioning for batch readers.
type PartitionConfig struct {
	Mode PartitionMode `yaml:"mode" json:"mode,omitempty" jsonschema:"title=Mode,enum=time,enum=rows,default=time" validate:"omitempty,oneof=time rows"`
}

// SourceConfig names a file to import for a symbol.
type SourceConfig struct {
	Symbol string          `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,required" validate:"required"`
	Path   string          `yaml:"path" json:"path" jsonschema:"title=Path,required" validate:"required"`
	Format importer.Format `yaml:"format" json:"format,omitempty" jsonschema:"title=Format,description=Inferred from the extension when empty,enum=csv,enum=parquet" validate:"omitempty,oneof=csv parquet"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Version:       version.GetVersion(),
		LogLevel:      "info",
		ImportWorkers: 4,
		Partition:     PartitionConfig{Mode: PartitionByTime},
		Sources:       nil,
	}
}

// Validate checks field constraints and that the config version is one
// this library can load.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidVersion, "incompatible config version", err)
	}

	return nil
}

// Jobs returns the configured sources as import jobs.
func (c Config) Jobs() []ImportJob {
	jobs := make([]ImportJob, 0, len(c.Sources))
	for _, src := range c.Sources {
		jobs = append(jobs, ImportJob{Symbol: src.Symbol, Path: src.Path, Format: src.Format})
	}

	return jobs
}

// ParseConfig parses YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse YAML config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// LoadConfig reads and parses the YAML config at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return ParseConfig(data)
}

// ConfigSchema returns the JSON schema of Config.
func ConfigSchema() (string, error) {
	schema := jsonschema.Reflect(&Config{})

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Package conf provides unified configuration loading for amlsim.
// It supports loading from YAML files and environment variables.
package conf

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config contains all amlsim run settings.
type Config struct {
	// General identifies the run and seeds the random source.
	General GeneralConfig `yaml:"general"`

	// Simulator configures the step loop and engine-wide limits.
	Simulator SimulatorConfig `yaml:"simulator"`

	// Default holds the global transaction parameters consumed by the
	// behavior models.
	Default DefaultConfig `yaml:"default"`

	// Input names the CSV files the graph is loaded from.
	Input InputConfig `yaml:"input"`

	// Output names the files the run writes.
	Output OutputConfig `yaml:"output"`

	// Sinks selects where transaction events are recorded.
	Sinks SinksConfig `yaml:"sinks"`

	// Logging configures log verbosity and the audit trail.
	Logging LoggingConfig `yaml:"logging"`

	// Policy optionally tunes edge admission and amount adjustment for
	// normal transactions. Nil means every edge is admitted and amounts
	// pass through unchanged.
	Policy *PolicyConfig `yaml:"policy,omitempty"`
}

// GeneralConfig identifies and seeds the run.
type GeneralConfig struct {
	// SimulationName labels the run in logs and sink metadata.
	SimulationName string `yaml:"simulation_name"`

	// RandomSeed seeds the single shared random source.
	RandomSeed int64 `yaml:"random_seed"`

	// TotalSteps is the number of discrete simulation steps.
	TotalSteps int64 `yaml:"total_steps"`
}

// SimulatorConfig configures the engine.
type SimulatorConfig struct {
	// TransactionLimit caps the number of recorded transactions. Zero
	// means unlimited.
	TransactionLimit int64 `yaml:"transaction_limit"`

	// TransactionInterval is the default cadence for normal behavior
	// models whose input row does not carry one.
	TransactionInterval int `yaml:"transaction_interval"`

	// NumBranches is the number of bank branches acting as cash
	// counterparties.
	NumBranches int `yaml:"num_branches"`

	// ComputeDiameter enables the periodic transaction-graph diameter
	// statistics.
	ComputeDiameter bool `yaml:"compute_diameter"`
}

// CashDirectionConfig bounds one direction of cash transactions.
type CashDirectionConfig struct {
	Enabled        bool    `yaml:"enabled"`
	NormalInterval int     `yaml:"normal_interval"`
	SARInterval    int     `yaml:"sar_interval"`
	NormalMin      float64 `yaml:"normal_min_amount"`
	NormalMax      float64 `yaml:"normal_max_amount"`
	SARMin         float64 `yaml:"sar_min_amount"`
	SARMax         float64 `yaml:"sar_max_amount"`
}

// DefaultConfig holds the global transaction parameters.
type DefaultConfig struct {
	// MinTxAmount and MaxTxAmount bound targeted transaction amounts
	// across every model.
	MinTxAmount float64 `yaml:"min_amount"`
	MaxTxAmount float64 `yaml:"max_amount"`

	// MarginRatio is the fraction withheld per hop in layering
	// typologies. Range: 0.0 to 1.0.
	MarginRatio float64 `yaml:"margin_ratio"`

	CashIn  CashDirectionConfig `yaml:"cash_in"`
	CashOut CashDirectionConfig `yaml:"cash_out"`
}

// InputConfig names the graph input files, all relative to Directory.
type InputConfig struct {
	Directory    string `yaml:"directory"`
	Accounts     string `yaml:"accounts"`
	Edges        string `yaml:"edges"`
	NormalModels string `yaml:"normal_models"`
	AlertMembers string `yaml:"alert_members"`
}

// OutputConfig names the run outputs, all relative to Directory.
type OutputConfig struct {
	Directory      string `yaml:"directory"`
	TransactionLog string `yaml:"transaction_log"`
	CounterLog     string `yaml:"counter_log"`
	DiameterLog    string `yaml:"diameter_log"`
}

// SQLiteSinkConfig configures the SQLite transaction sink.
type SQLiteSinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// KafkaSinkConfig configures the Kafka transaction sink.
type KafkaSinkConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// SinksConfig selects the transaction sinks. The CSV sink is the primary
// output and is on unless explicitly disabled.
type SinksConfig struct {
	CSV    bool             `yaml:"csv"`
	SQLite SQLiteSinkConfig `yaml:"sqlite"`
	Kafka  KafkaSinkConfig  `yaml:"kafka"`
}

// LoggingConfig configures amlsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables audit logging of alert schedules to audit.jsonl in
	// the output directory. "trace" additionally logs every transaction.
	Level string `yaml:"level"`
}

// PolicyConfig tunes edge admission and normal-transaction amount
// adjustment. The zero value admits everything and adjusts nothing.
type PolicyConfig struct {
	// Edge admission thresholds on the originator's proportion of SAR
	// beneficiaries.
	SAR2SAREdgeThreshold    float64 `yaml:"sar2sar_edge_threshold"`
	SAR2NormalEdgeThreshold float64 `yaml:"sar2normal_edge_threshold"`
	Normal2SAREdgeThreshold float64 `yaml:"normal2sar_edge_threshold"`
	Normal2NormalEdgeThresh float64 `yaml:"normal2normal_edge_threshold"`

	// Transaction probabilities per originator/beneficiary SAR class pair.
	SAR2SARTxProb       float64 `yaml:"sar2sar_tx_prob"`
	SAR2NormalTxProb    float64 `yaml:"sar2normal_tx_prob"`
	Normal2SARTxProb    float64 `yaml:"normal2sar_tx_prob"`
	Normal2NormalTxProb float64 `yaml:"normal2normal_tx_prob"`

	// Amount multipliers per class pair. Zero means "unchanged" (1.0).
	SAR2SARAmountRatio       float64 `yaml:"sar2sar_amount_ratio"`
	SAR2NormalAmountRatio    float64 `yaml:"sar2normal_amount_ratio"`
	Normal2SARAmountRatio    float64 `yaml:"normal2sar_amount_ratio"`
	Normal2NormalAmountRatio float64 `yaml:"normal2normal_amount_ratio"`

	// Occasional high/low outliers for normal-to-normal transactions.
	NormalHighProb  float64 `yaml:"normal_high_prob"`
	NormalHighRatio float64 `yaml:"normal_high_ratio"`
	NormalLowProb   float64 `yaml:"normal_low_prob"`
	NormalLowRatio  float64 `yaml:"normal_low_ratio"`
	NormalSkipProb  float64 `yaml:"normal_skip_prob"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			SimulationName: "sample",
			RandomSeed:     0,
			TotalSteps:     720,
		},
		Simulator: SimulatorConfig{
			TransactionLimit:    0,
			TransactionInterval: 7,
			NumBranches:         10,
			ComputeDiameter:     false,
		},
		Default: DefaultConfig{
			MinTxAmount: 100,
			MaxTxAmount: 1000,
			MarginRatio: 0.1,
			CashIn: CashDirectionConfig{
				NormalInterval: 30,
				SARInterval:    7,
				NormalMin:      100,
				NormalMax:      1000,
				SARMin:         1000,
				SARMax:         10000,
			},
			CashOut: CashDirectionConfig{
				NormalInterval: 30,
				SARInterval:    7,
				NormalMin:      100,
				NormalMax:      1000,
				SARMin:         1000,
				SARMax:         10000,
			},
		},
		Input: InputConfig{
			Directory:    "inputs",
			Accounts:     "accounts.csv",
			Edges:        "transactions.csv",
			NormalModels: "normal_models.csv",
			AlertMembers: "alert_members.csv",
		},
		Output: OutputConfig{
			Directory:      "outputs",
			TransactionLog: "tx_log.csv",
			CounterLog:     "tx_count.csv",
			DiameterLog:    "diameter.csv",
		},
		Sinks: SinksConfig{
			CSV: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the given YAML file, after loading a .env
// file if one exists, and applies AMLSIM_* environment overrides.
// Order: defaults -> file -> environment variables.
func Load(path string) (*Config, error) {
	// Ignore a missing .env; only care that an existing one loads.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

// Validate checks that the configuration is valid. Violations are fatal at
// load time: a run started from a contradictory configuration would only
// produce garbage data.
func (c *Config) Validate() error {
	if c.General.TotalSteps <= 0 {
		return fmt.Errorf("total_steps must be positive, got %d", c.General.TotalSteps)
	}
	if c.Default.MinTxAmount > c.Default.MaxTxAmount {
		return fmt.Errorf("min_amount %f exceeds max_amount %f",
			c.Default.MinTxAmount, c.Default.MaxTxAmount)
	}
	if c.Default.MarginRatio < 0 || c.Default.MarginRatio > 1 {
		return fmt.Errorf("margin_ratio must be between 0 and 1, got %f", c.Default.MarginRatio)
	}
	if c.Simulator.NumBranches < 0 {
		return fmt.Errorf("num_branches must be non-negative, got %d", c.Simulator.NumBranches)
	}
	for _, dir := range []struct {
		name string
		c    CashDirectionConfig
	}{{"cash_in", c.Default.CashIn}, {"cash_out", c.Default.CashOut}} {
		if dir.c.NormalMin > dir.c.NormalMax {
			return fmt.Errorf("%s: normal_min_amount %f exceeds normal_max_amount %f",
				dir.name, dir.c.NormalMin, dir.c.NormalMax)
		}
		if dir.c.SARMin > dir.c.SARMax {
			return fmt.Errorf("%s: sar_min_amount %f exceeds sar_max_amount %f",
				dir.name, dir.c.SARMin, dir.c.SARMax)
		}
	}
	if c.Sinks.Kafka.Enabled {
		if len(c.Sinks.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka sink enabled but no brokers configured")
		}
		if c.Sinks.Kafka.Topic == "" {
			return fmt.Errorf("kafka sink enabled but no topic configured")
		}
	}
	if c.Sinks.SQLite.Enabled && c.Sinks.SQLite.Path == "" {
		return fmt.Errorf("sqlite sink enabled but no path configured")
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true, "warn": true, "error": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: error, warn, info, debug, trace, or empty for default)", c.Logging.Level)
	}

	if p := c.Policy; p != nil {
		for _, prob := range []struct {
			name string
			v    float64
		}{
			{"sar2sar_tx_prob", p.SAR2SARTxProb},
			{"sar2normal_tx_prob", p.SAR2NormalTxProb},
			{"normal2sar_tx_prob", p.Normal2SARTxProb},
			{"normal2normal_tx_prob", p.Normal2NormalTxProb},
			{"normal_high_prob", p.NormalHighProb},
			{"normal_low_prob", p.NormalLowProb},
			{"normal_skip_prob", p.NormalSkipProb},
		} {
			if prob.v < 0 || prob.v > 1 {
				return fmt.Errorf("policy: %s must be between 0 and 1, got %f", prob.name, prob.v)
			}
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("AMLSIM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.General.RandomSeed = n
		}
	}
	if v := os.Getenv("AMLSIM_TOTAL_STEPS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.General.TotalSteps = n
		}
	}
	if v := os.Getenv("AMLSIM_SIMULATION_NAME"); v != "" {
		config.General.SimulationName = v
	}
	if v := os.Getenv("AMLSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("AMLSIM_KAFKA_BROKERS"); v != "" {
		config.Sinks.Kafka.Brokers = []string{v}
	}
}

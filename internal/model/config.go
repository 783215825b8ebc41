package model

import "time"

// Config is the full tool configuration.
// Hierarchy (highest to lowest priority): CLI flags, CROSSWIKI_* environment
// variables, ~/.crosswiki/config.yaml, defaults.
type Config struct {
	Analyzer   AnalyzerConfig   `yaml:"analyzer" mapstructure:"analyzer"`
	Bias       BiasConfig       `yaml:"bias" mapstructure:"bias"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Catalog    CatalogConfig    `yaml:"catalog" mapstructure:"catalog"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// AnalyzerConfig tunes the comparison core. Thresholds are calibrated against
// the reference-relative word ratio and best-match sentence averaging; change
// them together or not at all.
type AnalyzerConfig struct {
	ShingleSize         int           `yaml:"shingle_size" mapstructure:"shingle_size"`
	RewordedThreshold   float64       `yaml:"reworded_threshold" mapstructure:"reworded_threshold"`
	NumericThreshold    float64       `yaml:"numeric_threshold" mapstructure:"numeric_threshold"`
	NumericErrorLevel   float64       `yaml:"numeric_error_level" mapstructure:"numeric_error_level"`
	AlignedSentenceSim  float64       `yaml:"aligned_sentence_sim" mapstructure:"aligned_sentence_sim"`
	AlignedShingle      float64       `yaml:"aligned_shingle" mapstructure:"aligned_shingle"`
	PossibleSentenceSim float64       `yaml:"possible_sentence_sim" mapstructure:"possible_sentence_sim"`
	PossibleShingle     float64       `yaml:"possible_shingle" mapstructure:"possible_shingle"`
	DiffContextLines    int           `yaml:"diff_context_lines" mapstructure:"diff_context_lines"`
	DiffMaxLines        int           `yaml:"diff_max_lines" mapstructure:"diff_max_lines"`
	CacheTTL            time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	ExcludeMetaSections bool          `yaml:"exclude_meta_sections" mapstructure:"exclude_meta_sections"`
}

// BiasConfig tunes lexicon and hybrid bias detection
type BiasConfig struct {
	Hybrid           bool    `yaml:"hybrid" mapstructure:"hybrid"`
	ConfirmThreshold float64 `yaml:"confirm_threshold" mapstructure:"confirm_threshold"`
	NeutralThreshold float64 `yaml:"neutral_threshold" mapstructure:"neutral_threshold"`
	KeywordThreshold float64 `yaml:"keyword_threshold" mapstructure:"keyword_threshold"`
	SampleFraction   float64 `yaml:"sample_fraction" mapstructure:"sample_fraction"`
	SampleCap        int     `yaml:"sample_cap" mapstructure:"sample_cap"`
}

// ClassifierConfig configures the external zero-shot classifier
type ClassifierConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"`
	Model       string        `yaml:"model" mapstructure:"model"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	BatchSize   int           `yaml:"batch_size" mapstructure:"batch_size"`
	Parallelism int           `yaml:"parallelism" mapstructure:"parallelism"`
}

// HTTPConfig configures snapshot fetching
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerS float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CacheConfig configures the report cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// CatalogConfig configures the on-disk topic catalog
type CatalogConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			ShingleSize:         4,
			RewordedThreshold:   0.65,
			NumericThreshold:    0.05,
			NumericErrorLevel:   0.2,
			AlignedSentenceSim:  0.75,
			AlignedShingle:      0.5,
			PossibleSentenceSim: 0.45,
			PossibleShingle:     0.4,
			DiffContextLines:    2,
			DiffMaxLines:        120,
			CacheTTL:            24 * time.Hour,
			ExcludeMetaSections: true,
		},
		Bias: BiasConfig{
			Hybrid:           false,
			ConfirmThreshold: 0.7,
			NeutralThreshold: 0.6,
			KeywordThreshold: 0.8,
			SampleFraction:   0.1,
			SampleCap:        50,
		},
		Classifier: ClassifierConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     30 * time.Second,
			BatchSize:   5,
			Parallelism: 3,
		},
		HTTP: HTTPConfig{
			Timeout:      2 * time.Minute,
			UserAgent:    "CrossWiki/0.1 (+https://github.com/ppiankov/crosswiki)",
			MaxBodyBytes: 4_000_000,
			RequestsPerS: 1.0,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     24 * time.Hour,
		},
		Catalog: CatalogConfig{
			Dir: "catalog",
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}

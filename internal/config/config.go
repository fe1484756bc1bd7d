package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "AIRPORT_SENTIMENT_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	classifierAEnv   = "CLASSIFIER_A_URL"
	classifierBEnv   = "CLASSIFIER_B_URL"
	inferenceKeyEnv  = "INFERENCE_API_KEY"
	logLevelEnv      = "LOG_LEVEL"
	dataDirEnv       = "DATA_DIR"
	resultsDirEnv    = "RESULTS_DIR"
	defaultDotEnv    = ".env"
	defaultLogLevel  = "info"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Paths       PathsConfig       `yaml:"paths"`
	Classifiers ClassifiersConfig `yaml:"classifiers"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Weighting   WeightingConfig   `yaml:"weighting"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	Flights     FlightsConfig     `yaml:"flights"`
	Database    DatabaseConfig    `yaml:"database"`
	Collectors  CollectorsConfig  `yaml:"collectors"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PathsConfig locates input and output tables. Relative file names are
// resolved against DataDir.
type PathsConfig struct {
	DataDir    string `yaml:"dataDir"`
	ResultsDir string `yaml:"resultsDir"`
	RawDir     string `yaml:"rawDir"`
	Airports   string `yaml:"airports"`
	Flights    string `yaml:"flights"`
	Combined   string `yaml:"combined"`
	Keywords   string `yaml:"keywords"`
}

// Resolve joins a relative path onto the data directory.
func (p PathsConfig) Resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.DataDir, name)
}

// ClassifiersConfig describes both inference endpoints of the ensemble.
type ClassifiersConfig struct {
	APIKey    string           `yaml:"apiKey"`
	Stars     ClassifierConfig `yaml:"stars"`
	Sentiment ClassifierConfig `yaml:"sentiment"`
}

// ClassifierConfig wires a single text classifier service. Labels orders the
// returned distribution.
type ClassifierConfig struct {
	Name      string        `yaml:"name"`
	URL       string        `yaml:"url"`
	Labels    []string      `yaml:"labels"`
	MaxTokens int           `yaml:"maxTokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

type ScoringConfig struct {
	PolarityScheme string `yaml:"polarityScheme"`
}

// WeightingConfig selects the recency weighting strategy.
type WeightingConfig struct {
	Strategy      string      `yaml:"strategy"`
	HubTopN       int         `yaml:"hubTopN"`
	Hub           DecayConfig `yaml:"hub"`
	Regional      DecayConfig `yaml:"regional"`
	ReferenceDate string      `yaml:"referenceDate"`
	Now           string      `yaml:"now"`
	HalfLifeDays  float64     `yaml:"halfLifeDays"`
}

type DecayConfig struct {
	InflectionDays float64 `yaml:"inflectionDays"`
	Slope          float64 `yaml:"slope"`
}

type AggregationConfig struct {
	ZeroWeightFallback string `yaml:"zeroWeightFallback"`
	MasterJoin         string `yaml:"masterJoin"`
}

// FlightsConfig maps flights table columns.
type FlightsConfig struct {
	OriginColumn      string   `yaml:"originColumn"`
	DestinationColumn string   `yaml:"destinationColumn"`
	Metrics           []string `yaml:"metrics"`
	DelayMetric       string   `yaml:"delayMetric"`
}

// DatabaseConfig describes the optional Postgres summary sink.
type DatabaseConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// CollectorsConfig tunes the upstream scanners.
type CollectorsConfig struct {
	Workers           int                      `yaml:"workers"`
	RequestsPerSecond float64                  `yaml:"requestsPerSecond"`
	Burst             int                      `yaml:"burst"`
	Retries           int                      `yaml:"retries"`
	Backoff           time.Duration            `yaml:"backoff"`
	Timeout           time.Duration            `yaml:"timeout"`
	MinYear           int                      `yaml:"minYear"`
	UserAgent         string                   `yaml:"userAgent"`
	Sources           []SourceConfig           `yaml:"sources"`
	SkytraxSlugs      map[string]string        `yaml:"skytraxSlugs"`
	Editions          map[string]EditionConfig `yaml:"editions"`
}

// SourceConfig describes a single provider with its scanner strategy.
type SourceConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	Options map[string]string `yaml:"options"`
}

// EditionConfig is the Google News locale used for one country.
type EditionConfig struct {
	Language string `yaml:"language"`
	GL       string `yaml:"gl"`
	HL       string `yaml:"hl"`
	CEID     string `yaml:"ceid"`
}

// Load reads the .env file, the YAML configuration (explicit path, then the
// AIRPORT_SENTIMENT_CONFIG variable) and applies environment overrides.
func Load(path string) Config {
	if err := godotenv.Load(defaultDotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: cannot load %s: %v", defaultDotEnv, err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(classifierAEnv); v != "" {
		c.Classifiers.Stars.URL = v
	}

	if v := os.Getenv(classifierBEnv); v != "" {
		c.Classifiers.Sentiment.URL = v
	}

	if v := os.Getenv(inferenceKeyEnv); v != "" {
		c.Classifiers.APIKey = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(dataDirEnv); v != "" {
		c.Paths.DataDir = v
	}

	if v := os.Getenv(resultsDirEnv); v != "" {
		c.Paths.ResultsDir = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	base.Paths = mergePaths(base.Paths, override.Paths)

	if override.Classifiers.APIKey != "" {
		base.Classifiers.APIKey = override.Classifiers.APIKey
	}
	base.Classifiers.Stars = mergeClassifier(base.Classifiers.Stars, override.Classifiers.Stars)
	base.Classifiers.Sentiment = mergeClassifier(base.Classifiers.Sentiment, override.Classifiers.Sentiment)

	if override.Scoring.PolarityScheme != "" {
		base.Scoring.PolarityScheme = override.Scoring.PolarityScheme
	}

	if override.Weighting.Strategy != "" {
		base.Weighting.Strategy = override.Weighting.Strategy
	}
	if override.Weighting.HubTopN > 0 {
		base.Weighting.HubTopN = override.Weighting.HubTopN
	}
	if override.Weighting.Hub.InflectionDays > 0 {
		base.Weighting.Hub = override.Weighting.Hub
	}
	if override.Weighting.Regional.InflectionDays > 0 {
		base.Weighting.Regional = override.Weighting.Regional
	}
	if override.Weighting.ReferenceDate != "" {
		base.Weighting.ReferenceDate = override.Weighting.ReferenceDate
	}
	if override.Weighting.Now != "" {
		base.Weighting.Now = override.Weighting.Now
	}
	if override.Weighting.HalfLifeDays > 0 {
		base.Weighting.HalfLifeDays = override.Weighting.HalfLifeDays
	}

	if override.Aggregation.ZeroWeightFallback != "" {
		base.Aggregation.ZeroWeightFallback = override.Aggregation.ZeroWeightFallback
	}
	if override.Aggregation.MasterJoin != "" {
		base.Aggregation.MasterJoin = override.Aggregation.MasterJoin
	}

	if override.Flights.OriginColumn != "" {
		base.Flights.OriginColumn = override.Flights.OriginColumn
	}
	if override.Flights.DestinationColumn != "" {
		base.Flights.DestinationColumn = override.Flights.DestinationColumn
	}
	if len(override.Flights.Metrics) > 0 {
		base.Flights.Metrics = override.Flights.Metrics
	}
	if override.Flights.DelayMetric != "" {
		base.Flights.DelayMetric = override.Flights.DelayMetric
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Database.Table != "" {
		base.Database.Table = override.Database.Table
	}

	base.Collectors = mergeCollectors(base.Collectors, override.Collectors)
	return base
}

func mergePaths(base, override PathsConfig) PathsConfig {
	if override.DataDir != "" {
		base.DataDir = override.DataDir
	}
	if override.ResultsDir != "" {
		base.ResultsDir = override.ResultsDir
	}
	if override.RawDir != "" {
		base.RawDir = override.RawDir
	}
	if override.Airports != "" {
		base.Airports = override.Airports
	}
	if override.Flights != "" {
		base.Flights = override.Flights
	}
	if override.Combined != "" {
		base.Combined = override.Combined
	}
	if override.Keywords != "" {
		base.Keywords = override.Keywords
	}
	return base
}

func mergeClassifier(base, override ClassifierConfig) ClassifierConfig {
	if override.Name != "" {
		base.Name = override.Name
	}
	if override.URL != "" {
		base.URL = override.URL
	}
	if len(override.Labels) > 0 {
		base.Labels = override.Labels
	}
	if override.MaxTokens > 0 {
		base.MaxTokens = override.MaxTokens
	}
	if override.Timeout > 0 {
		base.Timeout = override.Timeout
	}
	return base
}

func mergeCollectors(base, override CollectorsConfig) CollectorsConfig {
	if override.Workers > 0 {
		base.Workers = override.Workers
	}
	if override.RequestsPerSecond > 0 {
		base.RequestsPerSecond = override.RequestsPerSecond
	}
	if override.Burst > 0 {
		base.Burst = override.Burst
	}
	if override.Retries > 0 {
		base.Retries = override.Retries
	}
	if override.Backoff > 0 {
		base.Backoff = override.Backoff
	}
	if override.Timeout > 0 {
		base.Timeout = override.Timeout
	}
	if override.MinYear > 0 {
		base.MinYear = override.MinYear
	}
	if override.UserAgent != "" {
		base.UserAgent = override.UserAgent
	}
	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}
	if len(override.SkytraxSlugs) > 0 {
		base.SkytraxSlugs = override.SkytraxSlugs
	}
	for country, edition := range override.Editions {
		if base.Editions == nil {
			base.Editions = map[string]EditionConfig{}
		}
		base.Editions[country] = edition
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: defaultLogLevel},
		Paths: PathsConfig{
			DataDir:    "data",
			ResultsDir: "results",
			RawDir:     "raw",
			Airports:   "airports_filtered.csv",
			Flights:    "flights_with_weather.csv",
			Combined:   "combined_data.csv",
			Keywords:   "keywords.json",
		},
		Classifiers: ClassifiersConfig{
			Stars: ClassifierConfig{
				Name:      "nlptown/bert-base-multilingual-uncased-sentiment",
				URL:       "http://localhost:8080/models/stars",
				Labels:    []string{"1 star", "2 stars", "3 stars", "4 stars", "5 stars"},
				MaxTokens: 512,
				Timeout:   30 * time.Second,
			},
			Sentiment: ClassifierConfig{
				Name:      "cardiffnlp/twitter-xlm-roberta-base-sentiment",
				URL:       "http://localhost:8080/models/sentiment",
				Labels:    []string{"negative", "neutral", "positive"},
				MaxTokens: 512,
				Timeout:   30 * time.Second,
			},
		},
		Scoring: ScoringConfig{PolarityScheme: "ensemble"},
		Weighting: WeightingConfig{
			Strategy:      "sigmoid",
			HubTopN:       30,
			Hub:           DecayConfig{InflectionDays: 547.5, Slope: 0.005},
			Regional:      DecayConfig{InflectionDays: 1095, Slope: 0.003},
			ReferenceDate: "2026-01-01",
			HalfLifeDays:  365,
		},
		Aggregation: AggregationConfig{ZeroWeightFallback: "mean", MasterJoin: "left"},
		Flights: FlightsConfig{
			OriginColumn:      "SchedDepApt",
			DestinationColumn: "SchedArrApt",
			Metrics:           []string{"MinLateDeparted", "MinLateArrived", "Dep_prcp", "Dep_wspd", "Dep_temp"},
			DelayMetric:       "MinLateDeparted",
		},
		Database: DatabaseConfig{Table: "airport_topic_summaries"},
		Collectors: CollectorsConfig{
			Workers:           2,
			RequestsPerSecond: 0.5,
			Burst:             1,
			Retries:           3,
			Backoff:           5 * time.Second,
			Timeout:           15 * time.Second,
			MinYear:           2015,
			UserAgent:         defaultUserAgent,
			Sources: []SourceConfig{
				{Name: "GoogleNews", Scanner: "googlenews"},
				{Name: "Reddit", Scanner: "reddit"},
				{Name: "Skytrax", Scanner: "skytrax"},
			},
			SkytraxSlugs: defaultSkytraxSlugs(),
			Editions: map[string]EditionConfig{
				"IT": {Language: "IT", GL: "IT", HL: "it-IT", CEID: "IT:it"},
				"DE": {Language: "DE", GL: "DE", HL: "de-DE", CEID: "DE:de"},
				"AT": {Language: "DE", GL: "AT", HL: "de-AT", CEID: "AT:de"},
				"CH": {Language: "DE", GL: "CH", HL: "de-CH", CEID: "CH:de"},
				"FR": {Language: "FR", GL: "FR", HL: "fr-FR", CEID: "FR:fr"},
				"BE": {Language: "FR", GL: "BE", HL: "fr-BE", CEID: "BE:fr"},
				"ES": {Language: "ES", GL: "ES", HL: "es-419", CEID: "ES:es"},
				"GB": {Language: "EN", GL: "GB", HL: "en-GB", CEID: "GB:en"},
				"IE": {Language: "EN", GL: "IE", HL: "en-IE", CEID: "IE:en"},
				"US": {Language: "EN", GL: "US", HL: "en-US", CEID: "US:en"},
			},
		},
	}
}

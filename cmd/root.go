package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "resource-matcher"
	envPrefix = "RESOURCE_MATCHER"
)

type Config struct {
	Dataset     string             `mapstructure:"dataset"`
	Catalog     string             `mapstructure:"catalog"`
	Weights     map[string]float64 `mapstructure:"weights"`
	Concurrency int                `mapstructure:"concurrency"`
	BatchOrder  string             `mapstructure:"batch-order"`
	Similarity  *SimilarityConfig  `mapstructure:"similarity"`
	Export      *ExportConfig      `mapstructure:"export"`
	Metrics     *MetricsConfig     `mapstructure:"metrics"`
}

type SimilarityConfig struct {
	// Provider is one of none, token-overlap, gemini-embedding or gemini-judge.
	Provider        string        `mapstructure:"provider"`
	CacheSize       int           `mapstructure:"cache-size"`
	ExtractSections bool          `mapstructure:"extract-sections"`
	Redis           *RedisConfig  `mapstructure:"redis"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password" json:"-"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type GeminiConfig struct {
	APIKey         string        `mapstructure:"api-key" json:"-"`
	APIKeyFile     string        `mapstructure:"api-key-file"`
	Model          string        `mapstructure:"model"`
	EmbeddingModel string        `mapstructure:"embedding-model"`
	MaxRetries     int           `mapstructure:"max-retries"`
	Backoff        time.Duration `mapstructure:"backoff"`
	MaxLogLength   int           `mapstructure:"max-log-length"`
}

type ExportConfig struct {
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resource-matcher scores and ranks candidates against job requirements",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resource-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("dataset", "", "a YAML or JSON file with resources and requirements")
	rootCmd.PersistentFlags().String("catalog", "", "a YAML skill catalog (default is the built-in catalog)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("dataset", rootCmd.PersistentFlags().Lookup("dataset"))
	viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))

	viper.SetDefault("concurrency", 0)
	viper.SetDefault("batch-order", "rank")
	viper.SetDefault("similarity.provider", "none")
	viper.SetDefault("similarity.cache-size", 1024)
	viper.SetDefault("similarity.gemini.max-retries", 2)
	viper.SetDefault("similarity.gemini.backoff", "1s")
	viper.SetDefault("export.output", "output")
	viper.SetDefault("metrics.address", ":9090")
}

func initConfig() {
	// A missing .env file is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("similarity.gemini.api-key", envPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	// Config is optional for commands run from flags only. An explicitly
	// given file must exist and parse.
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Similarity == nil {
		config.Similarity = &SimilarityConfig{}
	}
	if config.Export == nil {
		config.Export = &ExportConfig{}
	}
	if config.Metrics == nil {
		config.Metrics = &MetricsConfig{}
	}

	return config, nil
}

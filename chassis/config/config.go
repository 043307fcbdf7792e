package config

import (
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

const (
	// DefaultPort is used when neither config file nor environment set one.
	DefaultPort = "8000"

	defaultLLMEndpoint = "https://api-inference.huggingface.co/models"
	defaultLLMModel    = "EleutherAI/gpt-j-6b"
)

// AppConfig ...
type AppConfig struct {
	Storage struct {
		DSN string `yaml:"dsn"`
	}
	AWS struct {
		Region             string `yaml:"region"`
		CredentialsFile    string `yaml:"credentialsFile"`
		CredentialsProfile string `yaml:"credentialsProfile"`
	}
	API struct {
		Port     string `yaml:"port"`
		PlanTTL  int    `yaml:"planTTL"`
		LogLevel string `yaml:"loglevel"`
	}
	LLM struct {
		Endpoint string `yaml:"endpoint"`
		Model    string `yaml:"model"`
		Token    string `yaml:"token"`
		Timeout  int    `yaml:"timeout"`
	}
	Importer struct {
		Queuesrc struct {
			Name    string `yaml:"name"`
			URL     string `yaml:"url"`
			Retries int    `yaml:"readRetries"`
		}
		Workers  int    `yaml:"workers"`
		LogLevel string `yaml:"loglevel"`
	}
	Janitor struct {
		Interval int    `yaml:"interval"`
		LogLevel string `yaml:"loglevel"`
	}
}

// Environment always wins over the file: PORT and credentials are
// resolved when the container process starts, not at image build.
func (cfg *AppConfig) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		cfg.API.Port = port
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Storage.DSN = dsn
	}
	if token := os.Getenv("HF_API_TOKEN"); token != "" {
		cfg.LLM.Token = token
	}
	if model := os.Getenv("HF_MODEL"); model != "" {
		cfg.LLM.Model = model
	}
}

func (cfg *AppConfig) applyDefaults() {
	if cfg.API.Port == "" {
		cfg.API.Port = DefaultPort
	}
	if cfg.API.PlanTTL == 0 {
		cfg.API.PlanTTL = 86400
	}
	if cfg.LLM.Endpoint == "" {
		cfg.LLM.Endpoint = defaultLLMEndpoint
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultLLMModel
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30
	}
	if cfg.Importer.Workers == 0 {
		cfg.Importer.Workers = 1
	}
	if cfg.Janitor.Interval == 0 {
		cfg.Janitor.Interval = 60
	}
}

// Read loads the YAML file pointed to by CFG_PATH (optional), then
// applies environment overrides and defaults.
func Read() (*AppConfig, error) {
	cfg := &AppConfig{}
	if filename := os.Getenv("CFG_PATH"); filename != "" {
		buff, err := ioutil.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(buff, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// PublicBaseURL is used to build the join URL returned on room creation.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}

// JudgeConfig controls the per-room judging loop and its status provider.
type JudgeConfig struct {
	ProviderBaseURL     string `env:"PROVIDER_BASE_URL" envDefault:"http://localhost:9090"`
	ProviderTimeoutSecs int    `env:"PROVIDER_TIMEOUT_SECS" envDefault:"7"`
	PollIntervalSecs    int    `env:"POLL_INTERVAL_SECS" envDefault:"10"`
	DefaultProblem      string `env:"DEFAULT_PROBLEM" envDefault:"P1000"`
}

func LoadJudge() (JudgeConfig, error) {
	var cfg JudgeConfig
	err := env.Parse(&cfg)
	return cfg, err
}

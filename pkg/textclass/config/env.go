package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
)

// LoadEnv reads .env.<env> from dir into the process environment. Variables
// already set win. A missing file is not an error.
func LoadEnv(dir, env string) error {
	if env == "" {
		env = "local"
	}
	path := filepath.Join(dir, ".env."+env)
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no .env file found, using OS environment", "path", path)
			return nil
		}
		return err
	}
	slog.Debug("loaded environment file", "path", path)
	return nil
}

// Services holds the settings of the external collaborators. It is built
// once by the binary and passed to constructors explicitly.
type Services struct {
	AWSRegion   string
	AWSEndpoint string

	ValkeyAddr     string
	ValkeyPassword string
	CacheTTL       time.Duration

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}

// ServicesFromEnv reads Services through lookup, normally os.LookupEnv.
func ServicesFromEnv(lookup func(string) (string, bool)) Services {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}
	s := Services{
		AWSRegion:      get("AWS_REGION", "us-east-1"),
		AWSEndpoint:    get("AWS_ENDPOINT", ""),
		ValkeyAddr:     get("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword: get("VALKEY_PASSWORD", ""),
		CacheTTL:       24 * time.Hour,
		OpenAIKey:      get("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  get("OPENAI_BASE_URL", ""),
		OpenAIModel:    get("OPENAI_MODEL", "gpt-4o-mini"),
	}
	if v := get("SENTIMENT_CACHE_TTL", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			s.CacheTTL = d
		} else if secs, err := strconv.Atoi(v); err == nil {
			s.CacheTTL = time.Duration(secs) * time.Second
		}
	}
	return s
}

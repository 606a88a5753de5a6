package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	// RemoteConfig locates one of the REST collaborators.
	RemoteConfig struct {
		BaseURL string
		APIKey  string
		Timeout time.Duration
	}

	BatchConfig struct {
		SessionTTL    time.Duration
		PurgeInterval time.Duration
	}

	Config struct {
		Env          string
		Build        string
		AppName      string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string

		Server    ServerConfig
		Generator RemoteConfig
		Catalog   RemoteConfig
		Batch     BatchConfig
	}
)

// NewConfig reads the configuration from defaults, an optional
// `config/.env.<env>` file and the environment (prefixed by the env name,
// e.g. PROD_GENERATOR_BASEURL).
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "TKB")
	v.SetDefault("secretKey", "k2v$9qf!x3z#m7p@w1r^t8y&u4i*o0a%")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("generator.baseURL", "http://localhost:8080/api")
	v.SetDefault("generator.apiKey", "")
	v.SetDefault("generator.timeout", 2*time.Minute)
	v.SetDefault("catalog.baseURL", "http://localhost:8080/api")
	v.SetDefault("catalog.apiKey", "")
	v.SetDefault("catalog.timeout", 15*time.Second)
	v.SetDefault("batch.sessionTTL", 12*time.Hour)
	v.SetDefault("batch.purgeInterval", 10*time.Minute)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	confDir := os.Getenv("CONFIG_DIR")
	if confDir == "" {
		confDir = "config"
	}
	dotEnvPath := filepath.Join(confDir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Generator: RemoteConfig{
			BaseURL: v.GetString("generator.baseURL"),
			APIKey:  v.GetString("generator.apiKey"),
			Timeout: v.GetDuration("generator.timeout"),
		},
		Catalog: RemoteConfig{
			BaseURL: v.GetString("catalog.baseURL"),
			APIKey:  v.GetString("catalog.apiKey"),
			Timeout: v.GetDuration("catalog.timeout"),
		},
		Batch: BatchConfig{
			SessionTTL:    v.GetDuration("batch.sessionTTL"),
			PurgeInterval: v.GetDuration("batch.purgeInterval"),
		},
	}
}

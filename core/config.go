package core

import (
	"log"
	"net/mail"
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
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	// AuthConfig describes how tokens issued by the identity provider are verified.
	AuthConfig struct {
		Secret   string
		Issuer   string
		Audience string
		TokenTTL time.Duration // only used when minting development tokens
	}

	DatabaseConfig struct {
		Engine  string // mongodb | memory
		URI     string
		Name    string
		Timeout time.Duration
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
		StatsTTL time.Duration
	}

	Config struct {
		Env             string
		Build           string
		Debug           bool
		TestMode        bool
		AppName         string
		WorkDir         string
		FrontendBaseURL string
		SendgridApiKey  string
		RollbarToken    string
		defaultFrom     string

		Server   ServerConfig
		Auth     AuthConfig
		Database DatabaseConfig
		Redis    RedisConfig
	}
)

func (conf *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(conf.defaultFrom)
	if err != nil {
		return mail.Address{Name: conf.AppName, Address: "noreply@localhost"}
	}
	if addr.Name == "" {
		addr.Name = conf.AppName
	}
	return *addr
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "StartUp-SL")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "StartUp-SL <noreply@localhost>")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverReadTimeout", 5*time.Second)
	v.SetDefault("serverWriteTimeout", 10*time.Second)
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("serverDisableReqLogs", false)

	v.SetDefault("authSecret", "startupsl-dev-secret")
	v.SetDefault("authIssuer", "")
	v.SetDefault("authAudience", "")
	v.SetDefault("authTokenTTL", 24*time.Hour)

	v.SetDefault("databaseEngine", "mongodb")
	v.SetDefault("databaseURI", "mongodb://localhost:27017")
	v.SetDefault("databaseName", "startupsl")
	v.SetDefault("databaseTimeout", 10*time.Second)

	v.SetDefault("redisAddr", "")
	v.SetDefault("redisPassword", "")
	v.SetDefault("redisDB", 0)
	v.SetDefault("redisPrefix", "startupsl:")
	v.SetDefault("redisStatsTTL", time.Minute)
}

// NewConfig loads the configuration for the current ENV (DEV by default).
// Values come from the environment (prefixed by the env name, eg. PROD_DATABASEURI)
// with config/.env.<env> loaded first when it exists.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return fromViper(v, env, wd)
}

func fromViper(v *viper.Viper, env, wd string) *Config {
	return &Config{
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		AppName:         v.GetString("appName"),
		WorkDir:         wd,
		FrontendBaseURL: strings.TrimRight(v.GetString("frontendBaseURL"), "/"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		defaultFrom:     v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			Address:         v.GetString("serverAddress"),
			DebugHost:       v.GetString("serverDebugHost"),
			ReadTimeout:     v.GetDuration("serverReadTimeout"),
			WriteTimeout:    v.GetDuration("serverWriteTimeout"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
			DisableReqLogs:  v.GetBool("serverDisableReqLogs"),
		},
		Auth: AuthConfig{
			Secret:   v.GetString("authSecret"),
			Issuer:   v.GetString("authIssuer"),
			Audience: v.GetString("authAudience"),
			TokenTTL: v.GetDuration("authTokenTTL"),
		},
		Database: DatabaseConfig{
			Engine:  strings.ToLower(v.GetString("databaseEngine")),
			URI:     v.GetString("databaseURI"),
			Name:    v.GetString("databaseName"),
			Timeout: v.GetDuration("databaseTimeout"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redisAddr"),
			Password: v.GetString("redisPassword"),
			DB:       v.GetInt("redisDB"),
			Prefix:   v.GetString("redisPrefix"),
			StatsTTL: v.GetDuration("redisStatsTTL"),
		},
	}
}

// NewTestConfig returns the defaults with test mode on; nothing is read from the environment.
func NewTestConfig() *Config {
	v := viper.New()
	setDefaults(v)
	v.Set("testMode", true)
	v.Set("databaseEngine", "memory")
	v.Set("serverDisableReqLogs", true)
	return fromViper(v, "TEST", Getwd())
}

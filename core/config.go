package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Env          string
	AppName      string
	Build        string
	Debug        bool
	TestMode     bool
	WorkDir      string
	DataFile     string // tagged-record store
	InputFile    string // optional command script; stdin when missing
	RollbarToken string
}

// NewConfig reads the configuration from defaults, an optional `config/.env.<env>` file
// and the environment (prefixed with the upper-cased env name, e.g. DEV_DATAFILE).
func NewConfig() (*Config, error) {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Gradebook")
	conf.SetDefault("build", "dev")
	conf.SetDefault("dataFile", "dados.txt")
	conf.SetDefault("inputFile", "input.txt")
	conf.SetDefault("rollbarToken", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	case "PROD":
		conf.SetDefault("debug", false)
	}
	conf.SetEnvPrefix(env)

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "config.Getwd")
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "config.godotenv(%s)", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config.os.Stat(%s)", dotEnvPath)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		WorkDir:      wd,
		DataFile:     absPath(wd, conf.GetString("dataFile")),
		InputFile:    absPath(wd, conf.GetString("inputFile")),
		RollbarToken: conf.GetString("rollbarToken"),
	}, nil
}

func absPath(wd, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(wd, path)
}

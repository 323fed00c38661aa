package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
	// ApiRoot prefixes every versioned route, e.g. /api/v1.
	ApiRoot string `yaml:"api_root" json:"api_root"`
	// Secret signs and verifies bearer tokens. It is injected into the
	// authorization gate at construction and never read from a global.
	Secret string `yaml:"secret" json:"secret"`
	// RevocationPolicy selects the gate policy: admin-only or subject-only.
	RevocationPolicy string `yaml:"revocation_policy" json:"revocation_policy"`
	Debug            bool   `yaml:"debug" json:"debug"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "eshop",
		Location: "Asia/Shanghai",
		Workdir:  "/var/eshop",
	},
	Web: WebConfig{
		Host:             "0.0.0.0",
		Port:             1816,
		ApiRoot:          "/api/v1",
		Secret:           "9b6de5cc-eshop-1816-a925-greenwall",
		RevocationPolicy: "admin-only",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "eshop",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/eshop/eshop.log",
	},
}

func setEnvStringValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

// LoadConfig reads the YAML configuration file and applies environment
// overrides. A missing file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" && fileExists(cfile) {
		data, err := os.ReadFile(cfile)
		if err != nil {
			panic(err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			panic(err)
		}
	}

	setEnvStringValue("ESHOP_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("ESHOP_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvStringValue("ESHOP_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("ESHOP_WEB_PORT", &cfg.Web.Port)
	setEnvStringValue("ESHOP_WEB_API_ROOT", &cfg.Web.ApiRoot)
	setEnvStringValue("ESHOP_WEB_SECRET", &cfg.Web.Secret)
	setEnvStringValue("ESHOP_WEB_REVOCATION_POLICY", &cfg.Web.RevocationPolicy)
	setEnvBoolValue("ESHOP_WEB_DEBUG", &cfg.Web.Debug)

	setEnvStringValue("ESHOP_DB_TYPE", &cfg.Database.Type)
	setEnvStringValue("ESHOP_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("ESHOP_DB_PORT", &cfg.Database.Port)
	setEnvStringValue("ESHOP_DB_NAME", &cfg.Database.Name)
	setEnvStringValue("ESHOP_DB_USER", &cfg.Database.User)
	setEnvStringValue("ESHOP_DB_PWD", &cfg.Database.Passwd)

	setEnvStringValue("ESHOP_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("ESHOP_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvStringValue("ESHOP_LOGGER_FILENAME", &cfg.Logger.Filename)

	return cfg
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

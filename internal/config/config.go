package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Site   Site   `yaml:"site"`
	Server Server `yaml:"server"`
	Auth   Auth   `yaml:"auth"`
}

type Site struct {
	FQDN string `yaml:"fqdn"`
	Name string `yaml:"name"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	StoragePath   string `yaml:"storagePath"`
	StorageURL    string `yaml:"storageUrl"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

type Auth struct {
	JWTSecret     string        `yaml:"jwtSecret"`
	TokenDuration time.Duration `yaml:"tokenDuration"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.Auth.TokenDuration == 0 {
		config.Auth.TokenDuration = 24 * time.Hour
	}

	return config, nil
}

package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configs представляет структуру конфигурации.
type Configs struct {
	Address     string `json:"address" yaml:"address"`           // аналог переменной окружения TODOKEEPER_SERVER_ADDRESS или флага -a
	LogLevel    string `json:"log_level" yaml:"log_level"`       // аналог переменной окружения TODOKEEPER_SERVER_LOG_LEVEL или флага -l
	DatabaseDSN string `json:"database_dsn" yaml:"database_dsn"` // аналог переменной окружения TODOKEEPER_SERVER_DATABASE_URL или флага -d
	SecretKey   string `json:"secret_key" yaml:"secret_key"`     // аналог переменной окружения TODOKEEPER_SERVER_SECRET_KEY или флага -secret-key
	ExpireToken string `json:"expire_token" yaml:"expire_token"` // аналог переменной окружения TODOKEEPER_SERVER_EXPIRE_TOKEN или флага -expire-token, например "24h"
	BcryptCost  int    `json:"bcrypt_cost" yaml:"bcrypt_cost"`   // аналог переменной окружения TODOKEEPER_SERVER_BCRYPT_COST или флага -bcrypt-cost
}

// ParseConfigFile - функция для переопределения параметров конфигурации из файла конфигурации.
// Файлы с расширением .yaml и .yml разбираются как YAML, остальные как JSON.
func ParseConfigFile(configFileName string) (Configs, error) {
	var configs Configs
	f, err := os.Open(configFileName)
	if err != nil {
		return Configs{}, fmt.Errorf("open cofiguration file error: %w", err)
	}
	defer f.Close()
	reader := bufio.NewReader(f)

	switch strings.ToLower(filepath.Ext(configFileName)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(reader).Decode(&configs)
	default:
		err = json.NewDecoder(reader).Decode(&configs)
	}
	if err != nil {
		return Configs{}, fmt.Errorf("parse cofiguration file error: %w", err)
	}

	return configs, nil
}

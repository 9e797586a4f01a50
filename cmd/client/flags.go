package main

import (
	"os"
	"path/filepath"
)

// options - параметры запуска клиента.
type options struct {
	serverURL string // адрес сервера
	tokenFile string // путь к файлу с токеном
	logLevel  string // уровень логирования
	logFile   string // файл логов, по умолчанию логи не пишутся
	out       string // формат вывода: json или text
}

// defaultOptions - значения по умолчанию берутся из переменных окружения.
// Флаги командной строки имеют приоритет над ними.
func defaultOptions() options {
	return options{
		serverURL: envOr("TODOKEEPER_CLIENT_SERVER_URL", "http://localhost:8080"),
		tokenFile: envOr("TODOKEEPER_CLIENT_TOKEN_FILE", defaultTokenFile()),
		logLevel:  envOr("TODOKEEPER_CLIENT_LOG_LEVEL", "info"),
		logFile:   os.Getenv("TODOKEEPER_CLIENT_LOG_FILE"),
		out:       envOr("TODOKEEPER_CLIENT_OUT", "text"),
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".todokeeper-token"
	}
	return filepath.Join(dir, "todokeeper", "token")
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

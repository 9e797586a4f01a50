package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/abezemskiy/todokeeper/internal/server/config"
	"github.com/joho/godotenv"
)

var (
	netAddr     string        // адрес запуска сервиса
	databaseDsn string        // адрес базы данных, если не задан, используется хранилище в памяти
	logLevel    string        // уровень логирования
	configFile  string        // путь к файлу конфигурации
	secretKey   string        // секретный ключ для подписи JWT
	expireToken time.Duration // время действия JWT, 0 - без ограничения
	bcryptCost  int           // стоимость хэширования паролей
)

// parseVariables - функция для установки конфигурационных параметров приложения.
// Конфигурирование приложения с приоритетом в порядке убывания: значения флагов, значения из файла, значения переменных окружения.
func parseVariables() error {
	parseFlags()
	if err := parseConfigFile(); err != nil {
		return err
	}
	parseEnvironment()

	// Проверяю корректность установки глобальных переменных
	err := checkVariables()
	if err != nil {
		return fmt.Errorf("failed to set global variable, %w", err)
	}
	return nil
}

// parseFlags - функция для определения параметров конфигурации из флагов.
func parseFlags() {
	flag.StringVar(&netAddr, "a", "", "address and port to run server")

	// по умолчанию адрес базы данных не задан
	flag.StringVar(&databaseDsn, "d", "", "database connection address")

	flag.StringVar(&logLevel, "l", "", "log level")
	flag.StringVar(&configFile, "c", "", "name of configuration file")
	flag.StringVar(&secretKey, "secret-key", "", "secret key for signing JWT")
	flag.DurationVar(&expireToken, "expire-token", 0, "JWT lifetime, for example 24h; 0 disables expiration")
	flag.IntVar(&bcryptCost, "bcrypt-cost", 0, "bcrypt cost for password hashing")

	// Вызов flag.Parse() для парсинга аргументов
	flag.Parse()
}

// parseConfigFile - функция для переопределения параметров конфигурации из файла конфигурации.
func parseConfigFile() error {
	// если не указан файл конфигурации, то оставляю параметры запуска без изменения
	if configFile == "" {
		return nil
	}
	configs, err := config.ParseConfigFile(configFile)
	if err != nil {
		return fmt.Errorf("parse config file error, %w", err)
	}

	// обновляю параметры запуска если они не определены флагами
	if netAddr == "" {
		netAddr = configs.Address
	}
	if logLevel == "" {
		logLevel = configs.LogLevel
	}
	if databaseDsn == "" {
		databaseDsn = configs.DatabaseDSN
	}
	if secretKey == "" {
		secretKey = configs.SecretKey
	}
	if expireToken == 0 && configs.ExpireToken != "" {
		expire, err := time.ParseDuration(configs.ExpireToken)
		if err != nil {
			return fmt.Errorf("parse expire token from config file error, %w", err)
		}
		expireToken = expire
	}
	if bcryptCost == 0 {
		bcryptCost = configs.BcryptCost
	}
	return nil
}

// parseEnvironment - функция для переопределения конфигурации из переменных окружения.
// Переопределяет конфигурацию, если значения не установлены флагами или файлом конфигурации.
// Переменные окружения могут быть загружены из файла .env в рабочей директории.
func parseEnvironment() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env file: %v", err)
	}

	if netAddr == "" {
		netAddr = os.Getenv("TODOKEEPER_SERVER_ADDRESS")
	}
	if databaseDsn == "" {
		databaseDsn = os.Getenv("TODOKEEPER_SERVER_DATABASE_URL")
	}
	if logLevel == "" {
		logLevel = os.Getenv("TODOKEEPER_SERVER_LOG_LEVEL")
	}
	if secretKey == "" {
		secretKey = os.Getenv("TODOKEEPER_SERVER_SECRET_KEY")
	}
	if expireToken == 0 {
		envExpireToken := os.Getenv("TODOKEEPER_SERVER_EXPIRE_TOKEN")
		if envExpireToken != "" {
			expire, err := time.ParseDuration(envExpireToken)
			if err == nil {
				expireToken = expire
			}
		}
	}
	if bcryptCost == 0 {
		envCost := os.Getenv("TODOKEEPER_SERVER_BCRYPT_COST")
		if envCost != "" {
			cost, err := strconv.Atoi(envCost)
			if err == nil {
				bcryptCost = cost
			}
		}
	}
}

// checkVariables - функция для проверки корректности установки глобальных переменных.
func checkVariables() error {
	if netAddr == "" {
		return fmt.Errorf("address and port to run server must be set")
	}
	if logLevel == "" {
		return fmt.Errorf("log level must be set")
	}
	if secretKey == "" {
		return fmt.Errorf("secret key must be set")
	}
	if expireToken < 0 {
		return fmt.Errorf("expire token must not be negative")
	}
	return nil
}

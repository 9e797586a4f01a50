package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStorage - структура для хранения токена текущего пользователя в оперативной памяти.
// Предоставляет методы для потокобезопасного использования.
type TokenStorage struct {
	mu    sync.RWMutex
	token string
}

// Set - установка токена. Пустая строка удаляет токен.
func (s *TokenStorage) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Get - получение токена.
func (s *TokenStorage) Get() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// FileTokenStorage - хранит токен в файле, чтобы сессия переживала перезапуск клиента.
type FileTokenStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStorage - возвращает хранилище токена в файле path.
func NewFileTokenStorage(path string) *FileTokenStorage {
	return &FileTokenStorage{path: path}
}

// Set - сохраняет токен в файл с правами только для владельца. Пустая строка удаляет файл.
func (s *FileTokenStorage) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove token file, %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory, %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file, %w", err)
	}
	return nil
}

// Get - читает токен из файла. Отсутствие файла означает, что пользователь не вошел.
func (s *FileTokenStorage) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token file, %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ITokenStorage - интерфейс для сохранения и получения токена текущего пользователя.
type ITokenStorage interface {
	Set(string) error     // метод для установки токена.
	Get() (string, error) // метод для получения токена.
}

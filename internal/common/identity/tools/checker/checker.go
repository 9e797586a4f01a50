package checker

import (
	"errors"
	"net/mail"
	"strings"
)

// ErrValidation - данные запроса имеют неверный формат.
var ErrValidation = errors.New("validation error")

const (
	minPasswordLen = 6
	// bcrypt учитывает только первые 72 байта пароля
	maxPasswordLen = 72
)

// NormalizeLogin - приводит логин (email) к каноническому виду.
func NormalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// CheckLogin - функция для проверки корректности логина.
// Логином является email адрес без отображаемого имени.
func CheckLogin(login string) bool {
	if login == "" {
		return false
	}
	addr, err := mail.ParseAddress(login)
	if err != nil {
		return false
	}
	return addr.Address == login
}

// CheckPassword - функция для проверки корректности пароля.
func CheckPassword(password string) bool {
	return len(password) >= minPasswordLen && len(password) <= maxPasswordLen
}

// CheckText - функция для проверки текста записи.
func CheckText(text string) bool {
	return strings.TrimSpace(text) != ""
}

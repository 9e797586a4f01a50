// hasher - пакет для одностороннего хэширования паролей пользователей.
package hasher

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// cost - стоимость вычисления bcrypt хэша.
var cost = bcrypt.DefaultCost

// SetCost - функция для установки стоимости хэширования.
// Значения вне допустимого диапазона bcrypt игнорируются.
func SetCost(newCost int) {
	if newCost < bcrypt.MinCost || newCost > bcrypt.MaxCost {
		return
	}
	cost = newCost
}

// Hash - вычисляет хэш пароля с уникальной солью.
// Повторный вызов с тем же паролем возвращает другой хэш.
func Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password, %w", err)
	}
	return string(b), nil
}

// Verify - проверяет соответствие пароля хэшу. Сравнение выполняется за постоянное время.
// Для некорректного хэша возвращается false.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

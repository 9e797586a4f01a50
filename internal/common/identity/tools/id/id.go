package id

import (
	"fmt"

	"github.com/google/uuid"
)

// В качестве id будет использоваться сгенерированный UUID (Universally Unique Identifier)
func GenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id, %w", err)
	}
	return id.String(), nil
}

// IsValid - проверяет, что строка является корректным идентификатором.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

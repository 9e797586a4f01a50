package identity

//go:generate mockgen -destination=../mocks/mock_identity.go -package=mocks github.com/abezemskiy/todokeeper/internal/repositories/identity Store

import (
	"context"
	"errors"
)

// ErrDuplicateContact - пользователь с таким логином уже зарегистрирован.
var ErrDuplicateContact = errors.New("login already exists")

// Token - выданный пользователю токен вместе с его назначением.
type Token struct {
	Access string `json:"access"` // назначение токена
	Token  string `json:"token"`  // подписанная строка токена
}

// Identity - учетная запись пользователя.
type Identity struct {
	ID     string  // уникальный идентификатор, не меняется после создания
	Login  string  // email в нормализованном виде, уникален
	Hash   string  // bcrypt хэш пароля
	Tokens []Token // действующие токены в порядке выдачи
}

// HasToken - проверяет, что у пользователя есть действующий токен.
func (i Identity) HasToken(t Token) bool {
	for _, have := range i.Tokens {
		if have == t {
			return true
		}
	}
	return false
}

type (
	// Creator - интерфейс для регистрации пользователя.
	Creator interface {
		Create(ctx context.Context, login, hash, id string) error // Возвращает ErrDuplicateContact при повторном логине
	}

	// Finder - интерфейс для поиска пользователей.
	Finder interface {
		FindByLogin(ctx context.Context, login string) (Identity, bool, error)
		FindByID(ctx context.Context, id string) (Identity, bool, error)
		FindByValidToken(ctx context.Context, t Token) (Identity, bool, error) // пара должна присутствовать в списке токенов
	}

	// TokenKeeper - интерфейс для атомарного изменения списка токенов пользователя.
	TokenKeeper interface {
		AppendToken(ctx context.Context, id string, t Token) error // повторное добавление пары ничего не меняет
		RemoveToken(ctx context.Context, id string, t Token) error // удаление отсутствующей пары не является ошибкой
	}

	// SecretUpdater - интерфейс для смены хэша пароля. Вместе с хэшем атомарно удаляются все токены пользователя.
	SecretUpdater interface {
		UpdateSecret(ctx context.Context, id, hash string) (bool, error)
	}

	// Store - хранилище учетных записей пользователей.
	Store interface {
		Creator
		Finder
		TokenKeeper
		SecretUpdater
	}

	// Resetter - полная очистка хранилища. Используется только в тестах и при начальной подготовке.
	Resetter interface {
		DeleteAll(ctx context.Context) error
	}
)

// IdentityData - структура данных для регистрации и авторизации пользователя.
type IdentityData struct {
	Login    string `json:"email"`
	Password string `json:"password"`
}

// PasswordData - структура для смены пароля.
type PasswordData struct {
	Password string `json:"password"`
}

// UserInfo - публичные данные пользователя, которые возвращаются клиенту.
type UserInfo struct {
	ID    string `json:"_id"`
	Login string `json:"email"`
}

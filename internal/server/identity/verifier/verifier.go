// verifier - пакет для проверки учетных данных пользователя.
package verifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/hasher"
	"github.com/abezemskiy/todokeeper/internal/repositories/identity"
)

// ErrInvalidCredentials - логин не найден или пароль неверный. Причины намеренно не различаются.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash - хэш для сравнения, когда пользователь не найден, чтобы время ответа не выдавало наличие логина.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z2PH0sxQ1ZVU0sg8WzF4F9nK"

// Authenticate - возвращает пользователя по логину и паролю.
func Authenticate(ctx context.Context, finder identity.Finder, login, password string) (identity.Identity, error) {
	u, ok, err := finder.FindByLogin(ctx, login)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("failed to find user, %w", err)
	}
	if !ok {
		hasher.Verify(password, dummyHash)
		return identity.Identity{}, ErrInvalidCredentials
	}
	if !hasher.Verify(password, u.Hash) {
		return identity.Identity{}, ErrInvalidCredentials
	}
	return u, nil
}

// token - пакет для выпуска и проверки подписанных токенов пользователей.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/id"
	"github.com/golang-jwt/jwt/v5"
)

// AccessAuth - назначение токена, который используется для аутентификации запросов.
const AccessAuth = "auth"

// ErrInvalidToken - токен поврежден, подписан другим ключом или просрочен.
var ErrInvalidToken = errors.New("invalid token")

// Payload - полезная нагрузка токена.
type Payload struct {
	UserID string // идентификатор пользователя
	Access string // назначение токена
}

// Claims - структура утверждений, которая включает стандартные утверждения
// и пользовательские UserID и Access.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"_id"`
	Access string `json:"access"`
}

// Codec - выпускает и проверяет JWT. Ключ и время жизни задаются при создании,
// смена ключа делает недействительными все ранее выпущенные токены.
type Codec struct {
	secretKey []byte
	expire    time.Duration // 0 - токен бессрочный
}

// NewCodec - возвращает новый экземпляр Codec.
func NewCodec(secretKey string, expire time.Duration) *Codec {
	return &Codec{
		secretKey: []byte(secretKey),
		expire:    expire,
	}
}

// Issue - создает токен и возвращает его в виде строки.
// Каждый токен получает собственный jti, поэтому два входа в одну секунду дают разные токены.
func (c *Codec) Issue(p Payload) (string, error) {
	jti, err := id.GenerateID()
	if err != nil {
		return "", err
	}
	claims := Claims{
		UserID: p.UserID,
		Access: p.Access,
	}
	claims.ID = jti
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	if c.expire > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.expire))
	}

	// создаю токен с алгоритмом подписи HS256
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to signed JWT to string, %w", err)
	}
	return tokenString, nil
}

// Verify - проверяет подпись токена и возвращает его полезную нагрузку.
// Заголовок алгоритма должен совпадать с тем, который используется для подписи.
func (c *Codec) Verify(tokenStr string) (Payload, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return c.secretKey, nil
		})
	if err != nil {
		return Payload{}, fmt.Errorf("%w, %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return Payload{}, ErrInvalidToken
	}

	return Payload{UserID: claims.UserID, Access: claims.Access}, nil
}

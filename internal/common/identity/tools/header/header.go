package header

import (
	"fmt"
	"net/http"
	"strings"
)

// Authorization - заголовок, в котором передается токен в обе стороны.
const Authorization = "Authorization"

const bearer = "Bearer"

// SetToken - устанавливает токен в заголовок.
func SetToken(h http.Header, token string) {
	h.Set(Authorization, bearer+" "+token)
}

// GetTokenFromHeader - функция для получения токена из заголовка запроса.
func GetTokenFromHeader(req *http.Request) (string, error) {
	return parse(req.Header.Get(Authorization))
}

// GetTokenFromResponseHeader извлекает токен из заголовка в ответе сервера.
func GetTokenFromResponseHeader(res *http.Response) (string, error) {
	return parse(res.Header.Get(Authorization))
}

func parse(authHeader string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("missing authorization header")
	}

	// Проверяю, что заголовок начинается с "Bearer "
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != bearer || parts[1] == "" {
		return "", fmt.Errorf("invalid authorization header format")
	}

	return parts[1], nil
}

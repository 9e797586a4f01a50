package auth

import (
	"fmt"
	"net/http"

	"github.com/abezemskiy/todokeeper/internal/client/identity"
	"github.com/abezemskiy/todokeeper/internal/client/logger"
	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/header"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// OnBeforeMiddleware - мидлварь для установки токена пользователя перед отправкой запроса на сервер.
// Если токена нет, запрос отправляется без заголовка авторизации.
func OnBeforeMiddleware(tokens identity.ITokenStorage) resty.RequestMiddleware {
	return func(_ *resty.Client, req *resty.Request) error {
		tok, err := tokens.Get()
		if err != nil {
			return fmt.Errorf("failed to get token from storage, %w", err)
		}
		if tok == "" {
			return nil
		}

		// Устанавливаю токен в заголовок запроса
		header.SetToken(req.Header, tok)
		return nil
	}
}

// OnAfterMiddleware - мидлварь для обновления токена по ответу сервера.
// Токен из заголовка успешного ответа сохраняется. Статус 401 означает, что токен отозван или истек,
// и он удаляется из хранилища.
func OnAfterMiddleware(tokens identity.ITokenStorage) resty.ResponseMiddleware {
	return func(_ *resty.Client, res *resty.Response) error {
		switch res.StatusCode() {
		case http.StatusOK:
			if res.Header().Get(header.Authorization) == "" {
				return nil
			}
			newToken, err := header.GetTokenFromResponseHeader(res.RawResponse)
			if err != nil {
				return fmt.Errorf("failed to get token from server responce, %w", err)
			}
			if err := tokens.Set(newToken); err != nil {
				return fmt.Errorf("failed to save token, %w", err)
			}
		case http.StatusUnauthorized:
			logger.ClientLog.Debug("token is rejected by server, removing it", zap.String("url", res.Request.URL))
			if err := tokens.Set(""); err != nil {
				return fmt.Errorf("failed to remove token, %w", err)
			}
		}
		return nil
	}
}

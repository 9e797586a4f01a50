// handlers - пакет с http обработчиками сервера.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/checker"
	"github.com/abezemskiy/todokeeper/internal/repositories/identity"
	"github.com/abezemskiy/todokeeper/internal/server/identity/auth"
	"github.com/abezemskiy/todokeeper/internal/server/identity/verifier"
	"github.com/abezemskiy/todokeeper/internal/server/logger"
	"github.com/abezemskiy/todokeeper/internal/server/ownership"
	"go.uber.org/zap"
)

// errMalformedBody - тело запроса не удалось разобрать. Текст ошибки декодера клиенту не передается.
var errMalformedBody = errors.New("malformed request body")

// statusOf - код ответа для ошибки. Неизвестные ошибки считаются внутренними.
func statusOf(err error) int {
	switch {
	case errors.Is(err, checker.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, verifier.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, identity.ErrDuplicateContact):
		return http.StatusConflict
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ownership.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError - записывает ошибку в ответ. Подробности внутренних ошибок пишутся только в лог.
func writeError(res http.ResponseWriter, req *http.Request, msg string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.ServerLog.Error(msg, zap.String("address", req.URL.String()), zap.Error(err))
		http.Error(res, "internal server error", status)
		return
	}
	logger.ServerLog.Debug(msg, zap.String("address", req.URL.String()), zap.Error(err))
	if errors.Is(err, errMalformedBody) {
		http.Error(res, "validation error", status)
		return
	}
	http.Error(res, err.Error(), status)
}

// writeJSON - сериализует ответ в json.
func writeJSON(res http.ResponseWriter, req *http.Request, v any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(res).Encode(v); err != nil {
		logger.ServerLog.Error("failed to encode response", zap.String("address", req.URL.String()), zap.Error(err))
	}
}

// decode - разбирает тело запроса. Ошибка разбора считается ошибкой валидации.
func decode(req *http.Request, v any) error {
	defer req.Body.Close()
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return errors.Join(checker.ErrValidation, errMalformedBody, err)
	}
	return nil
}

// current - пользователь, установленный в контекст middleware аутентификации.
func current(req *http.Request) (identity.Identity, string, error) {
	u, ok := auth.IdentityFrom(req.Context())
	if !ok {
		return identity.Identity{}, "", auth.ErrUnauthenticated
	}
	tok, _ := auth.TokenFrom(req.Context())
	return u, tok, nil
}

// HandleOtherRequest - обработка нераспознанных http запросов к сервису.
func HandleOtherRequest() http.HandlerFunc {
	return func(res http.ResponseWriter, _ *http.Request) {
		res.Header().Set("Content-Type", "text/plain")
		res.WriteHeader(http.StatusNotFound)
	}
}

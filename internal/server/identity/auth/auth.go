// auth - пакет, который реализует проверку токена и middleware для аутентификации пользователя.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/header"
	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/token"
	"github.com/abezemskiy/todokeeper/internal/repositories/identity"
	"github.com/abezemskiy/todokeeper/internal/server/logger"
	"github.com/abezemskiy/todokeeper/internal/server/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ErrUnauthenticated - токен отсутствует, не прошел проверку подписи или был отозван.
var ErrUnauthenticated = errors.New("unauthenticated")

type contextKey string

const (
	identityKey = contextKey("identity")
	tokenKey    = contextKey("token")
)

// Request - запрос, из которого можно извлечь токен и идентификатор ресурса.
type Request interface {
	Token() (string, bool)
	ResourceID() (string, bool)
}

type httpRequest struct {
	req *http.Request
}

// FromHTTP - адаптер http запроса к Request. Токен читается из заголовка Authorization,
// идентификатор ресурса из параметра маршрута id.
func FromHTTP(req *http.Request) Request {
	return httpRequest{req: req}
}

func (r httpRequest) Token() (string, bool) {
	t, err := header.GetTokenFromHeader(r.req)
	if err != nil {
		return "", false
	}
	return t, true
}

func (r httpRequest) ResourceID() (string, bool) {
	id := chi.URLParam(r.req, "id")
	return id, id != ""
}

// Guard - проверяет токен запроса и находит его владельца.
type Guard struct {
	codec *token.Codec
	store identity.Finder
}

// NewGuard - возвращает новый экземпляр Guard.
func NewGuard(codec *token.Codec, store identity.Finder) *Guard {
	return &Guard{
		codec: codec,
		store: store,
	}
}

// Authenticate - возвращает пользователя, которому принадлежит токен, и сам токен.
// Токен должен быть подписан действующим ключом и присутствовать в списке токенов пользователя.
func (g *Guard) Authenticate(ctx context.Context, req Request) (identity.Identity, string, error) {
	tok, ok := req.Token()
	if !ok {
		metrics.AuthChecks.WithLabelValues(metrics.ResultRejected).Inc()
		return identity.Identity{}, "", fmt.Errorf("%w: token is missing", ErrUnauthenticated)
	}

	payload, err := g.codec.Verify(tok)
	if err != nil {
		metrics.AuthChecks.WithLabelValues(metrics.ResultRejected).Inc()
		return identity.Identity{}, "", fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	u, ok, err := g.store.FindByValidToken(ctx, identity.Token{Access: payload.Access, Token: tok})
	if err != nil {
		metrics.AuthChecks.WithLabelValues(metrics.ResultError).Inc()
		return identity.Identity{}, "", fmt.Errorf("failed to find user by token, %w", err)
	}
	// подпись верна, но токен отозван или выдан под другим идентификатором
	if !ok || u.ID != payload.UserID {
		metrics.AuthChecks.WithLabelValues(metrics.ResultRejected).Inc()
		return identity.Identity{}, "", fmt.Errorf("%w: token is revoked", ErrUnauthenticated)
	}

	metrics.AuthChecks.WithLabelValues(metrics.ResultAuthenticated).Inc()
	return u, tok, nil
}

// Middleware - пропускает к обработчику только аутентифицированные запросы.
// Пользователь и его токен устанавливаются в контекст запроса.
func (g *Guard) Middleware(h http.Handler) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		u, tok, err := g.Authenticate(req.Context(), FromHTTP(req))
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) {
				logger.ServerLog.Debug("request is not authenticated", zap.String("address", req.URL.String()), zap.Error(err))
				http.Error(res, "unauthenticated", http.StatusUnauthorized)
				return
			}
			logger.ServerLog.Error("failed to authenticate request", zap.String("address", req.URL.String()), zap.Error(err))
			http.Error(res, "internal server error", http.StatusInternalServerError)
			return
		}

		// вызываю основной обработчик
		h.ServeHTTP(res, req.WithContext(WithIdentity(req.Context(), u, tok)))
	}
}

// IdentityFrom - извлекает аутентифицированного пользователя из контекста.
func IdentityFrom(ctx context.Context) (identity.Identity, bool) {
	u, ok := ctx.Value(identityKey).(identity.Identity)
	return u, ok
}

// TokenFrom - извлекает токен, с которым был сделан запрос.
func TokenFrom(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok
}

// WithIdentity - возвращает контекст с установленным пользователем и токеном.
func WithIdentity(ctx context.Context, u identity.Identity, tok string) context.Context {
	ctx = context.WithValue(ctx, identityKey, u)
	return context.WithValue(ctx, tokenKey, tok)
}

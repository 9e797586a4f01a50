// session - пакет, который управляет жизненным циклом токенов пользователя:
// регистрация, вход, выход и смена пароля.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/checker"
	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/hasher"
	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/id"
	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/token"
	"github.com/abezemskiy/todokeeper/internal/repositories/identity"
	"github.com/abezemskiy/todokeeper/internal/server/identity/verifier"
	"github.com/abezemskiy/todokeeper/internal/server/logger"
	"github.com/abezemskiy/todokeeper/internal/server/metrics"
	"go.uber.org/zap"
)

// ErrUnknownUser - пользователь, для которого выполняется операция, не найден.
var ErrUnknownUser = errors.New("user not found")

// Service - выдает и отзывает токены пользователей.
type Service struct {
	store identity.Store
	codec *token.Codec
}

// NewService - возвращает новый экземпляр Service.
func NewService(store identity.Store, codec *token.Codec) *Service {
	return &Service{
		store: store,
		codec: codec,
	}
}

// Register - регистрирует пользователя и выдает ему первый токен.
// Уникальность логина проверяется до вычисления хэша.
func (s *Service) Register(ctx context.Context, login, password string) (identity.Identity, string, error) {
	login = checker.NormalizeLogin(login)
	if !checker.CheckLogin(login) {
		return identity.Identity{}, "", fmt.Errorf("%w: login is not valid", checker.ErrValidation)
	}
	if !checker.CheckPassword(password) {
		return identity.Identity{}, "", fmt.Errorf("%w: password is not valid", checker.ErrValidation)
	}

	_, exists, err := s.store.FindByLogin(ctx, login)
	if err != nil {
		return identity.Identity{}, "", fmt.Errorf("failed to find user, %w", err)
	}
	if exists {
		return identity.Identity{}, "", identity.ErrDuplicateContact
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return identity.Identity{}, "", err
	}
	userID, err := id.GenerateID()
	if err != nil {
		return identity.Identity{}, "", err
	}

	// уникальный индекс хранилища остается окончательной проверкой при одновременной регистрации
	if err := s.store.Create(ctx, login, hash, userID); err != nil {
		if errors.Is(err, identity.ErrDuplicateContact) {
			return identity.Identity{}, "", identity.ErrDuplicateContact
		}
		return identity.Identity{}, "", fmt.Errorf("failed to create user, %w", err)
	}

	u := identity.Identity{ID: userID, Login: login, Hash: hash}
	tok, err := s.issue(ctx, u.ID)
	if err != nil {
		// учетная запись уже создана, пользователь может войти через Login
		logger.ServerLog.Error("user created without token", zap.String("id", u.ID), zap.String("login", login), zap.Error(err))
		return identity.Identity{}, "", err
	}
	u.Tokens = []identity.Token{{Access: token.AccessAuth, Token: tok}}

	metrics.SessionEvents.WithLabelValues(metrics.EventRegister).Inc()
	logger.ServerLog.Info("new user registered", zap.String("id", u.ID))
	return u, tok, nil
}

// Login - проверяет учетные данные и выдает новый токен. Ранее выданные токены остаются действительными.
func (s *Service) Login(ctx context.Context, login, password string) (identity.Identity, string, error) {
	login = checker.NormalizeLogin(login)
	if !checker.CheckLogin(login) || password == "" {
		return identity.Identity{}, "", fmt.Errorf("%w: login or password is empty", checker.ErrValidation)
	}

	u, err := verifier.Authenticate(ctx, s.store, login, password)
	if err != nil {
		if errors.Is(err, verifier.ErrInvalidCredentials) {
			metrics.SessionEvents.WithLabelValues(metrics.EventFailed).Inc()
		}
		return identity.Identity{}, "", err
	}

	tok, err := s.issue(ctx, u.ID)
	if err != nil {
		return identity.Identity{}, "", err
	}
	u.Tokens = append(u.Tokens, identity.Token{Access: token.AccessAuth, Token: tok})

	metrics.SessionEvents.WithLabelValues(metrics.EventLogin).Inc()
	return u, tok, nil
}

// Logout - отзывает только переданный токен, остальные сессии пользователя сохраняются.
func (s *Service) Logout(ctx context.Context, userID, tok string) error {
	err := s.store.RemoveToken(ctx, userID, identity.Token{Access: token.AccessAuth, Token: tok})
	if err != nil {
		return fmt.Errorf("failed to remove token, %w", err)
	}
	metrics.SessionEvents.WithLabelValues(metrics.EventLogout).Inc()
	return nil
}

// ChangePassword - заменяет хэш пароля пользователя. Все ранее выданные токены отзываются,
// взамен выдается один новый токен. Если выдать его не удалось, пользователю нужно войти заново.
func (s *Service) ChangePassword(ctx context.Context, userID, password string) (string, error) {
	if !checker.CheckPassword(password) {
		return "", fmt.Errorf("%w: password is not valid", checker.ErrValidation)
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return "", err
	}
	ok, err := s.store.UpdateSecret(ctx, userID, hash)
	if err != nil {
		return "", fmt.Errorf("failed to update password, %w", err)
	}
	if !ok {
		return "", ErrUnknownUser
	}
	logger.ServerLog.Info("password changed, all tokens revoked", zap.String("id", userID))

	tok, err := s.issue(ctx, userID)
	if err != nil {
		return "", err
	}
	return tok, nil
}

// issue - выпускает токен и добавляет его в список токенов пользователя.
func (s *Service) issue(ctx context.Context, userID string) (string, error) {
	tok, err := s.codec.Issue(token.Payload{UserID: userID, Access: token.AccessAuth})
	if err != nil {
		return "", err
	}
	if err := s.store.AppendToken(ctx, userID, identity.Token{Access: token.AccessAuth, Token: tok}); err != nil {
		return "", fmt.Errorf("failed to save token, %w", err)
	}
	return tok, nil
}

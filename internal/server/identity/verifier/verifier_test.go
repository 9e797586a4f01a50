package verifier

import (
	"context"
	"errors"
	"testing"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/hasher"
	"github.com/abezemskiy/todokeeper/internal/repositories/identity"
	"github.com/abezemskiy/todokeeper/internal/repositories/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthenticate(t *testing.T) {
	hasher.SetCost(bcrypt.MinCost)
	defer hasher.SetCost(bcrypt.DefaultCost)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mocks.NewMockStore(ctrl)

	hash, err := hasher.Hash("userOnePass")
	require.NoError(t, err)
	alice := identity.Identity{ID: "alice-id", Login: "yukio@example.com", Hash: hash}

	m.EXPECT().FindByLogin(gomock.Any(), "yukio@example.com").Return(alice, true, nil).Times(2)
	m.EXPECT().FindByLogin(gomock.Any(), "unknown@example.com").Return(identity.Identity{}, false, nil)
	m.EXPECT().FindByLogin(gomock.Any(), "broken@example.com").Return(identity.Identity{}, false, errors.New("connection refused"))

	// успешная проверка
	u, err := Authenticate(context.Background(), m, "yukio@example.com", "userOnePass")
	require.NoError(t, err)
	assert.Equal(t, alice, u)

	// неверный пароль и неизвестный логин дают одну и ту же ошибку
	_, errWrong := Authenticate(context.Background(), m, "yukio@example.com", "wrongPass")
	_, errUnknown := Authenticate(context.Background(), m, "unknown@example.com", "userOnePass")
	require.ErrorIs(t, errWrong, ErrInvalidCredentials)
	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.Equal(t, errWrong, errUnknown)

	// ошибка хранилища не маскируется под неверные учетные данные
	_, err = Authenticate(context.Background(), m, "broken@example.com", "userOnePass")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}

func TestDummyHash(t *testing.T) {
	// хэш-заглушка должен быть корректным bcrypt хэшем
	_, err := bcrypt.Cost([]byte(dummyHash))
	require.NoError(t, err)
}

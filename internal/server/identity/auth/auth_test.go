package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/header"
	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/token"
	"github.com/abezemskiy/todokeeper/internal/repositories/identity"
	"github.com/abezemskiy/todokeeper/internal/repositories/mocks"
	"github.com/abezemskiy/todokeeper/internal/server/metrics"
	"github.com/abezemskiy/todokeeper/internal/server/storage/inmemory"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRequest struct {
	token      string
	resourceID string
}

func (r fakeRequest) Token() (string, bool)      { return r.token, r.token != "" }
func (r fakeRequest) ResourceID() (string, bool) { return r.resourceID, r.resourceID != "" }

// prepare - создает пользователя с одним действующим токеном.
func prepare(t *testing.T, codec *token.Codec) (*inmemory.Store, identity.Identity, string) {
	t.Helper()
	ctx := context.Background()
	stor := inmemory.NewStore()
	require.NoError(t, stor.Create(ctx, "alice@example.com", "hash", "alice-id"))

	tok, err := codec.Issue(token.Payload{UserID: "alice-id", Access: token.AccessAuth})
	require.NoError(t, err)
	require.NoError(t, stor.AppendToken(ctx, "alice-id", identity.Token{Access: token.AccessAuth, Token: tok}))

	u, _, err := stor.FindByID(ctx, "alice-id")
	require.NoError(t, err)
	return stor, u, tok
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	codec := token.NewCodec("current secret", 0)
	stor, alice, tok := prepare(t, codec)
	g := NewGuard(codec, stor)

	// токен, подписанный другим ключом
	foreign, err := token.NewCodec("old secret", 0).Issue(token.Payload{UserID: "alice-id", Access: token.AccessAuth})
	require.NoError(t, err)
	// токен с верной подписью, которого нет в списке пользователя
	unknown, err := codec.Issue(token.Payload{UserID: "alice-id", Access: token.AccessAuth})
	require.NoError(t, err)
	// истекший токен
	expired, err := token.NewCodec("current secret", time.Millisecond).Issue(token.Payload{UserID: "alice-id", Access: token.AccessAuth})
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid token", token: tok},
		{name: "missing token", token: "", wantErr: true},
		{name: "garbage token", token: "not.a.token", wantErr: true},
		{name: "signed with another secret", token: foreign, wantErr: true},
		{name: "not in token list", token: unknown, wantErr: true},
		{name: "expired token", token: expired, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, got, err := g.Authenticate(ctx, fakeRequest{token: tt.token})
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnauthenticated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice, u)
			assert.Equal(t, tt.token, got)
		})
	}
}

func TestAuthenticateRevoked(t *testing.T) {
	ctx := context.Background()
	codec := token.NewCodec("secret", 0)
	stor, _, tok := prepare(t, codec)
	g := NewGuard(codec, stor)

	_, _, err := g.Authenticate(ctx, fakeRequest{token: tok})
	require.NoError(t, err)

	require.NoError(t, stor.RemoveToken(ctx, "alice-id", identity.Token{Access: token.AccessAuth, Token: tok}))
	_, _, err = g.Authenticate(ctx, fakeRequest{token: tok})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mocks.NewMockStore(ctrl)

	codec := token.NewCodec("secret", 0)
	tok, err := codec.Issue(token.Payload{UserID: "alice-id", Access: token.AccessAuth})
	require.NoError(t, err)

	m.EXPECT().FindByValidToken(gomock.Any(), identity.Token{Access: token.AccessAuth, Token: tok}).
		Return(identity.Identity{}, false, errors.New("connection reset"))

	before := testutil.ToFloat64(metrics.AuthChecks.WithLabelValues(metrics.ResultError))
	_, _, err = NewGuard(codec, m).Authenticate(context.Background(), fakeRequest{token: tok})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AuthChecks.WithLabelValues(metrics.ResultError)))
}

func TestFromHTTP(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/todos/{id}", func(res http.ResponseWriter, req *http.Request) {
		ar := FromHTTP(req)
		tok, ok := ar.Token()
		assert.True(t, ok)
		assert.Equal(t, "some-token", tok)

		id, ok := ar.ResourceID()
		assert.True(t, ok)
		assert.Equal(t, "todo-id", id)
		res.WriteHeader(http.StatusOK)
	})
	r.Get("/todos", func(res http.ResponseWriter, req *http.Request) {
		ar := FromHTTP(req)
		_, ok := ar.Token()
		assert.False(t, ok)
		_, ok = ar.ResourceID()
		assert.False(t, ok)
		res.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/todos/todo-id", nil)
	header.SetToken(req.Header, "some-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/todos", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware(t *testing.T) {
	codec := token.NewCodec("secret", 0)
	stor, alice, tok := prepare(t, codec)
	g := NewGuard(codec, stor)

	testHandler := func(res http.ResponseWriter, req *http.Request) {
		// извлекаю пользователя из контекста
		u, ok := IdentityFrom(req.Context())
		require.True(t, ok)
		assert.Equal(t, alice.ID, u.ID)

		got, ok := TokenFrom(req.Context())
		require.True(t, ok)
		assert.Equal(t, tok, got)

		res.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name      string
		token     string
		setheader bool
		status    int
	}{
		{name: "successful authentication", token: tok, setheader: true, status: http.StatusOK},
		{name: "header is not set", setheader: false, status: http.StatusUnauthorized},
		{name: "bad token", token: "bad", setheader: true, status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Get("/users/me", g.Middleware(http.HandlerFunc(testHandler)))

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.setheader {
				header.SetToken(req.Header, tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close() // Закрываем тело ответа
			assert.Equal(t, tt.status, res.StatusCode)
		})
	}
}

func TestMiddlewareStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := mocks.NewMockStore(ctrl)

	codec := token.NewCodec("secret", 0)
	tok, err := codec.Issue(token.Payload{UserID: "alice-id", Access: token.AccessAuth})
	require.NoError(t, err)
	m.EXPECT().FindByValidToken(gomock.Any(), gomock.Any()).Return(identity.Identity{}, false, errors.New("timeout"))

	h := NewGuard(codec, m).Middleware(http.HandlerFunc(func(res http.ResponseWriter, _ *http.Request) {
		t.Error("handler must not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	header.SetToken(req.Header, tok)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestContextEmpty(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)
	_, ok = TokenFrom(context.Background())
	assert.False(t, ok)
}

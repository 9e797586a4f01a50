package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abezemskiy/todokeeper/internal/client/identity"
	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/header"
	"github.com/go-chi/chi/v5"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStorage struct{}

func (brokenStorage) Set(string) error     { return errors.New("disk is full") }
func (brokenStorage) Get() (string, error) { return "", errors.New("permission denied") }

func TestOnBeforeMiddleware(t *testing.T) {
	// вспомогательная функция
	testHandler := func(token string) http.HandlerFunc {
		return func(res http.ResponseWriter, req *http.Request) {
			// Проверяю токен, установленный в заголовок
			getToken, err := header.GetTokenFromHeader(req)
			if token == "" {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, token, getToken)
			}

			// устанавливаю нужный статус в ответ
			res.WriteHeader(http.StatusOK)
		}
	}

	withToken := &identity.TokenStorage{}
	require.NoError(t, withToken.Set("success-token"))

	type want struct {
		err   bool
		token string
	}
	tests := []struct {
		name   string
		tokens identity.ITokenStorage
		want   want
	}{
		{
			name:   "success request",
			tokens: withToken,
			want:   want{token: "success-token"},
		},
		{
			name:   "no token",
			tokens: &identity.TokenStorage{},
			want:   want{token: ""},
		},
		{
			name:   "error from token storage",
			tokens: brokenStorage{},
			want:   want{err: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Get("/test", testHandler(tt.want.token))

			// Запускаю тестовый сервер
			ts := httptest.NewServer(r)
			defer ts.Close()

			// Создаю новый resty клиент
			client := resty.New()

			// Устанавливаю мидлварь на клиента
			client.OnBeforeRequest(OnBeforeMiddleware(tt.tokens))

			// Выполняю запрос к серверу
			resp, err := client.R().Get(ts.URL + "/test")
			if tt.want.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode())
		})
	}
}

func TestOnAfterMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/login", func(res http.ResponseWriter, _ *http.Request) {
		header.SetToken(res.Header(), "new-token")
		res.WriteHeader(http.StatusOK)
	})
	r.Get("/plain", func(res http.ResponseWriter, _ *http.Request) {
		res.WriteHeader(http.StatusOK)
	})
	r.Get("/revoked", func(res http.ResponseWriter, _ *http.Request) {
		res.WriteHeader(http.StatusUnauthorized)
	})
	r.Get("/broken", func(res http.ResponseWriter, _ *http.Request) {
		res.Header().Set(header.Authorization, "Basic abc")
		res.WriteHeader(http.StatusOK)
	})

	// Запускаю тестовый сервер
	ts := httptest.NewServer(r)
	defer ts.Close()

	tokens := &identity.TokenStorage{}
	client := resty.New().SetBaseURL(ts.URL)
	client.OnAfterResponse(OnAfterMiddleware(tokens))

	// токен из ответа сохраняется
	_, err := client.R().Post("/login")
	require.NoError(t, err)
	tok, err := tokens.Get()
	require.NoError(t, err)
	assert.Equal(t, "new-token", tok)

	// ответ без заголовка не меняет токен
	_, err = client.R().Get("/plain")
	require.NoError(t, err)
	tok, _ = tokens.Get()
	assert.Equal(t, "new-token", tok)

	// некорректный заголовок
	_, err = client.R().Get("/broken")
	require.Error(t, err)

	// отозванный токен удаляется
	_, err = client.R().Get("/revoked")
	require.NoError(t, err)
	tok, _ = tokens.Get()
	assert.Empty(t, tok)

	// ошибка хранилища возвращается клиенту
	failing := resty.New().SetBaseURL(ts.URL)
	failing.OnAfterResponse(OnAfterMiddleware(brokenStorage{}))
	_, err = failing.R().Get("/revoked")
	require.Error(t, err)
}

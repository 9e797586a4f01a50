package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/hasher"
	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/header"
	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/token"
	"github.com/abezemskiy/todokeeper/internal/repositories/todo"
	"github.com/abezemskiy/todokeeper/internal/server/metrics"
	"github.com/abezemskiy/todokeeper/internal/server/storage/inmemory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

func newServer(t *testing.T, secret string, stor *inmemory.Store) *httptest.Server {
	t.Helper()
	hasher.SetCost(bcrypt.MinCost)
	t.Cleanup(func() { hasher.SetCost(bcrypt.DefaultCost) })

	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	ts := httptest.NewServer(New(stor, token.NewCodec(secret, 0), reg))
	t.Cleanup(ts.Close)
	return ts
}

func send(t *testing.T, method, url, tok, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	if tok != "" {
		header.SetToken(req.Header, tok)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return res
}

func login(t *testing.T, ts *httptest.Server, path, email, password string) string {
	t.Helper()
	res := send(t, http.MethodPost, ts.URL+path, "", `{"email":"`+email+`","password":"`+password+`"}`)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	tok, err := header.GetTokenFromResponseHeader(res)
	require.NoError(t, err)
	return tok
}

func status(t *testing.T, method, url, tok, body string) int {
	t.Helper()
	res := send(t, method, url, tok, body)
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return res.StatusCode
}

func TestSessionLifecycle(t *testing.T) {
	ts := newServer(t, "secret", inmemory.NewStore())

	t1 := login(t, ts, "/users", "alice@example.com", "alicePass")
	t2 := login(t, ts, "/users/login", "alice@example.com", "alicePass")

	assert.Equal(t, http.StatusOK, status(t, http.MethodGet, ts.URL+"/users/me", t1, ""))
	assert.Equal(t, http.StatusOK, status(t, http.MethodGet, ts.URL+"/users/me", t2, ""))

	// выход отзывает только предъявленный токен
	assert.Equal(t, http.StatusOK, status(t, http.MethodDelete, ts.URL+"/users/me/token", t1, ""))
	assert.Equal(t, http.StatusUnauthorized, status(t, http.MethodGet, ts.URL+"/users/me", t1, ""))
	assert.Equal(t, http.StatusOK, status(t, http.MethodGet, ts.URL+"/users/me", t2, ""))

	assert.Equal(t, http.StatusUnauthorized, status(t, http.MethodGet, ts.URL+"/users/me", "", ""))
	assert.Equal(t, http.StatusConflict, status(t, http.MethodPost, ts.URL+"/users", "", `{"email":"alice@example.com","password":"alicePass"}`))

	// смена пароля отзывает все прежние токены и выдает новый
	t3 := login(t, ts, "/users/login", "alice@example.com", "alicePass")
	res := send(t, http.MethodPatch, ts.URL+"/users/me/password", t2, `{"password":"newAlicePass"}`)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	fresh, err := header.GetTokenFromResponseHeader(res)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, status(t, http.MethodGet, ts.URL+"/users/me", t2, ""))
	assert.Equal(t, http.StatusUnauthorized, status(t, http.MethodGet, ts.URL+"/users/me", t3, ""))
	assert.Equal(t, http.StatusOK, status(t, http.MethodGet, ts.URL+"/users/me", fresh, ""))

	assert.Equal(t, http.StatusBadRequest, status(t, http.MethodPost, ts.URL+"/users/login", "", `{"email":"alice@example.com","password":"alicePass"}`))
	login(t, ts, "/users/login", "alice@example.com", "newAlicePass")
}

func TestSecretRotation(t *testing.T) {
	stor := inmemory.NewStore()
	old := newServer(t, "old secret", stor)
	tok := login(t, old, "/users", "alice@example.com", "alicePass")

	// сервер с новым ключом не принимает ранее выданные токены
	rotated := newServer(t, "new secret", stor)
	assert.Equal(t, http.StatusUnauthorized, status(t, http.MethodGet, rotated.URL+"/users/me", tok, ""))
	assert.Equal(t, http.StatusOK, status(t, http.MethodGet, old.URL+"/users/me", tok, ""))
}

func TestConcurrentLogins(t *testing.T) {
	stor := inmemory.NewStore()
	ts := newServer(t, "secret", stor)
	login(t, ts, "/users", "bob@example.com", "bobsPass")

	const n = 10
	var mu sync.Mutex
	tokens := make([]string, 0, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			res, err := http.Post(ts.URL+"/users/login", "application/json",
				strings.NewReader(`{"email":"bob@example.com","password":"bobsPass"}`))
			if err != nil {
				return err
			}
			defer res.Body.Close()
			tok, err := header.GetTokenFromResponseHeader(res)
			if err != nil {
				return err
			}
			mu.Lock()
			tokens = append(tokens, tok)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, tok := range tokens {
		assert.Equal(t, http.StatusOK, status(t, http.MethodGet, ts.URL+"/users/me", tok, ""))
	}

	u, ok, err := stor.FindByLogin(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, u.Tokens, n+1)
}

func TestTodoOwnership(t *testing.T) {
	ts := newServer(t, "secret", inmemory.NewStore())
	alice := login(t, ts, "/users", "alice@example.com", "alicePass")
	bob := login(t, ts, "/users", "bob@example.com", "bobsPass")

	res := send(t, http.MethodPost, ts.URL+"/todos", alice, `{"text":"alice todo"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var created todo.Todo
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	res.Body.Close()

	assert.Equal(t, http.StatusOK, status(t, http.MethodGet, ts.URL+"/todos/"+created.ID, alice, ""))
	assert.Equal(t, http.StatusNotFound, status(t, http.MethodGet, ts.URL+"/todos/"+created.ID, bob, ""))
	assert.Equal(t, http.StatusNotFound, status(t, http.MethodPatch, ts.URL+"/todos/"+created.ID, bob, `{"text":"x"}`))
	assert.Equal(t, http.StatusNotFound, status(t, http.MethodDelete, ts.URL+"/todos/"+created.ID, bob, ""))
	assert.Equal(t, http.StatusBadRequest, status(t, http.MethodGet, ts.URL+"/todos/not-an-id", alice, ""))
	assert.Equal(t, http.StatusUnauthorized, status(t, http.MethodGet, ts.URL+"/todos", "", ""))

	res = send(t, http.MethodGet, ts.URL+"/todos", bob, "")
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.JSONEq(t, `{"todos":[]}`, string(body))
}

func TestMetricsAndNotFound(t *testing.T) {
	ts := newServer(t, "secret", inmemory.NewStore())
	tok := login(t, ts, "/users", "carol@example.com", "carolPass")
	assert.Equal(t, http.StatusOK, status(t, http.MethodGet, ts.URL+"/users/me", tok, ""))

	res := send(t, http.MethodGet, ts.URL+"/metrics", "", "")
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, strings.Contains(string(body), "todokeeper_auth_checks_total"))

	assert.Equal(t, http.StatusNotFound, status(t, http.MethodGet, ts.URL+"/unknown", "", ""))
}

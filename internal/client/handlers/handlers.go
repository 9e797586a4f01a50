// handlers - пакет с запросами клиента к серверу todokeeper.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/abezemskiy/todokeeper/internal/client/identity"
	"github.com/abezemskiy/todokeeper/internal/client/identity/auth"
	"github.com/abezemskiy/todokeeper/internal/client/logger"
	repoIdent "github.com/abezemskiy/todokeeper/internal/repositories/identity"
	"github.com/abezemskiy/todokeeper/internal/repositories/todo"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrNotLoggedIn - у клиента нет сохраненного токена.
var ErrNotLoggedIn = errors.New("not logged in")

// StatusError - сервер ответил статусом, отличным от 200.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server responded with status %d: %s", e.Code, e.Message)
}

// IsStatus - проверяет, что ошибка является ответом сервера с указанным статусом.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// TodoList - ответ со списком записей.
type TodoList struct {
	Todos []todo.Todo `json:"todos"`
}

// TodoItem - ответ с одной записью.
type TodoItem struct {
	Todo todo.Todo `json:"todo"`
}

// Deleted - количество удаленных записей.
type Deleted struct {
	Deleted int64 `json:"deleted"`
}

// Client - клиент сервера. Токен хранится в tokens и обновляется по ответам сервера.
type Client struct {
	client *resty.Client
	tokens identity.ITokenStorage
}

// NewClient - возвращает клиента сервера по адресу url.
func NewClient(url string, tokens identity.ITokenStorage) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(url, "/")).
		SetHeader("Content-Type", "application/json")

	// Устанавливаю мидлвари на клиента
	client.OnBeforeRequest(auth.OnBeforeMiddleware(tokens))
	client.OnAfterResponse(auth.OnAfterMiddleware(tokens))

	return &Client{
		client: client,
		tokens: tokens,
	}
}

// do - выполняет запрос и проверяет статус ответа.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		logger.ClientLog.Error("request to server error", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("request to server error, %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		logger.ClientLog.Debug("server responded with error", zap.String("path", path), zap.Int("status", resp.StatusCode()))
		return &StatusError{Code: resp.StatusCode(), Message: strings.TrimSpace(resp.String())}
	}
	return nil
}

// requireToken - возвращает ErrNotLoggedIn, если токена нет.
func (c *Client) requireToken() error {
	tok, err := c.tokens.Get()
	if err != nil {
		return err
	}
	if tok == "" {
		return ErrNotLoggedIn
	}
	return nil
}

// Register - регистрирует нового пользователя. Выданный токен сохраняется.
func (c *Client) Register(ctx context.Context, login, password string) (repoIdent.UserInfo, error) {
	var info repoIdent.UserInfo
	err := c.do(ctx, http.MethodPost, "/users", repoIdent.IdentityData{Login: login, Password: password}, &info)
	return info, err
}

// Login - входит под существующим пользователем. Выданный токен сохраняется.
func (c *Client) Login(ctx context.Context, login, password string) (repoIdent.UserInfo, error) {
	var info repoIdent.UserInfo
	err := c.do(ctx, http.MethodPost, "/users/login", repoIdent.IdentityData{Login: login, Password: password}, &info)
	return info, err
}

// Me - возвращает данные текущего пользователя.
func (c *Client) Me(ctx context.Context) (repoIdent.UserInfo, error) {
	if err := c.requireToken(); err != nil {
		return repoIdent.UserInfo{}, err
	}
	var info repoIdent.UserInfo
	err := c.do(ctx, http.MethodGet, "/users/me", nil, &info)
	return info, err
}

// Logout - отзывает текущий токен на сервере и удаляет его локально.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, "/users/me/token", nil, nil); err != nil {
		return err
	}
	return c.tokens.Set("")
}

// ChangePassword - заменяет пароль текущего пользователя. Остальные сессии завершаются сервером,
// новый токен из ответа сохраняет мидлварь OnAfterMiddleware.
func (c *Client) ChangePassword(ctx context.Context, password string) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, "/users/me/password", repoIdent.PasswordData{Password: password}, nil)
}

// CreateTodo - создает запись.
func (c *Client) CreateTodo(ctx context.Context, text string) (todo.Todo, error) {
	if err := c.requireToken(); err != nil {
		return todo.Todo{}, err
	}
	var t todo.Todo
	err := c.do(ctx, http.MethodPost, "/todos", todo.Fields{Text: text}, &t)
	return t, err
}

// ListTodos - возвращает записи текущего пользователя.
func (c *Client) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var list TodoList
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &list); err != nil {
		return nil, err
	}
	return list.Todos, nil
}

// GetTodo - возвращает запись по идентификатору.
func (c *Client) GetTodo(ctx context.Context, id string) (todo.Todo, error) {
	if err := c.requireToken(); err != nil {
		return todo.Todo{}, err
	}
	var item TodoItem
	err := c.do(ctx, http.MethodGet, "/todos/"+id, nil, &item)
	return item.Todo, err
}

// UpdateTodo - изменяет запись.
func (c *Client) UpdateTodo(ctx context.Context, id string, p todo.Patch) (todo.Todo, error) {
	if err := c.requireToken(); err != nil {
		return todo.Todo{}, err
	}
	var item TodoItem
	err := c.do(ctx, http.MethodPatch, "/todos/"+id, p, &item)
	return item.Todo, err
}

// DeleteTodo - удаляет запись и возвращает ее.
func (c *Client) DeleteTodo(ctx context.Context, id string) (todo.Todo, error) {
	if err := c.requireToken(); err != nil {
		return todo.Todo{}, err
	}
	var item TodoItem
	err := c.do(ctx, http.MethodDelete, "/todos/"+id, nil, &item)
	return item.Todo, err
}

// ClearTodos - удаляет все записи текущего пользователя.
func (c *Client) ClearTodos(ctx context.Context) (int64, error) {
	if err := c.requireToken(); err != nil {
		return 0, err
	}
	var d Deleted
	err := c.do(ctx, http.MethodDelete, "/todos", nil, &d)
	return d.Deleted, err
}

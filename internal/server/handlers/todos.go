package handlers

import (
	"net/http"

	"github.com/abezemskiy/todokeeper/internal/repositories/todo"
	"github.com/abezemskiy/todokeeper/internal/server/identity/auth"
	"github.com/abezemskiy/todokeeper/internal/server/ownership"
)

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

// CreateTodo - создает запись от имени аутентифицированного пользователя.
func CreateTodo(res http.ResponseWriter, req *http.Request, guard *ownership.Guard) {
	u, _, err := current(req)
	if err != nil {
		writeError(res, req, "user is not set", err)
		return
	}

	var fields todo.Fields
	if err := decode(req, &fields); err != nil {
		writeError(res, req, "failed to parse todo", err)
		return
	}
	t, err := guard.Create(req.Context(), u.ID, fields)
	if err != nil {
		writeError(res, req, "create todo error", err)
		return
	}
	writeJSON(res, req, t)
}

// CreateTodoHandler - обертка над CreateTodo.
func CreateTodoHandler(guard *ownership.Guard) http.HandlerFunc {
	fn := func(res http.ResponseWriter, req *http.Request) {
		CreateTodo(res, req, guard)
	}
	return fn
}

// ListTodos - возвращает записи пользователя.
func ListTodos(res http.ResponseWriter, req *http.Request, guard *ownership.Guard) {
	u, _, err := current(req)
	if err != nil {
		writeError(res, req, "user is not set", err)
		return
	}
	todos, err := guard.ListOwned(req.Context(), u.ID)
	if err != nil {
		writeError(res, req, "list todos error", err)
		return
	}
	writeJSON(res, req, TodoList{Todos: todos})
}

// ListTodosHandler - обертка над ListTodos.
func ListTodosHandler(guard *ownership.Guard) http.HandlerFunc {
	fn := func(res http.ResponseWriter, req *http.Request) {
		ListTodos(res, req, guard)
	}
	return fn
}

// ClearTodos - удаляет все записи пользователя.
func ClearTodos(res http.ResponseWriter, req *http.Request, guard *ownership.Guard) {
	u, _, err := current(req)
	if err != nil {
		writeError(res, req, "user is not set", err)
		return
	}
	n, err := guard.ClearOwned(req.Context(), u.ID)
	if err != nil {
		writeError(res, req, "clear todos error", err)
		return
	}
	writeJSON(res, req, Deleted{Deleted: n})
}

// ClearTodosHandler - обертка над ClearTodos.
func ClearTodosHandler(guard *ownership.Guard) http.HandlerFunc {
	fn := func(res http.ResponseWriter, req *http.Request) {
		ClearTodos(res, req, guard)
	}
	return fn
}

// GetTodo - возвращает запись пользователя по идентификатору из маршрута.
func GetTodo(res http.ResponseWriter, req *http.Request, guard *ownership.Guard) {
	u, _, err := current(req)
	if err != nil {
		writeError(res, req, "user is not set", err)
		return
	}
	todoID, _ := auth.FromHTTP(req).ResourceID()
	t, err := guard.GetOwned(req.Context(), u.ID, todoID)
	if err != nil {
		writeError(res, req, "get todo error", err)
		return
	}
	writeJSON(res, req, TodoItem{Todo: t})
}

// GetTodoHandler - обертка над GetTodo.
func GetTodoHandler(guard *ownership.Guard) http.HandlerFunc {
	fn := func(res http.ResponseWriter, req *http.Request) {
		GetTodo(res, req, guard)
	}
	return fn
}

// UpdateTodo - изменяет запись пользователя.
func UpdateTodo(res http.ResponseWriter, req *http.Request, guard *ownership.Guard) {
	u, _, err := current(req)
	if err != nil {
		writeError(res, req, "user is not set", err)
		return
	}

	var patch todo.Patch
	if err := decode(req, &patch); err != nil {
		writeError(res, req, "failed to parse todo patch", err)
		return
	}
	todoID, _ := auth.FromHTTP(req).ResourceID()
	t, err := guard.UpdateOwned(req.Context(), u.ID, todoID, patch)
	if err != nil {
		writeError(res, req, "update todo error", err)
		return
	}
	writeJSON(res, req, TodoItem{Todo: t})
}

// UpdateTodoHandler - обертка над UpdateTodo.
func UpdateTodoHandler(guard *ownership.Guard) http.HandlerFunc {
	fn := func(res http.ResponseWriter, req *http.Request) {
		UpdateTodo(res, req, guard)
	}
	return fn
}

// DeleteTodo - удаляет запись пользователя и возвращает ее.
func DeleteTodo(res http.ResponseWriter, req *http.Request, guard *ownership.Guard) {
	u, _, err := current(req)
	if err != nil {
		writeError(res, req, "user is not set", err)
		return
	}
	todoID, _ := auth.FromHTTP(req).ResourceID()
	t, err := guard.DeleteOwned(req.Context(), u.ID, todoID)
	if err != nil {
		writeError(res, req, "delete todo error", err)
		return
	}
	writeJSON(res, req, TodoItem{Todo: t})
}

// DeleteTodoHandler - обертка над DeleteTodo.
func DeleteTodoHandler(guard *ownership.Guard) http.HandlerFunc {
	fn := func(res http.ResponseWriter, req *http.Request) {
		DeleteTodo(res, req, guard)
	}
	return fn
}

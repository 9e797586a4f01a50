// ownership - пакет, который ограничивает операции с записями владельцем записи.
// Чужая запись для пользователя неотличима от отсутствующей.
package ownership

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/checker"
	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/id"
	"github.com/abezemskiy/todokeeper/internal/repositories/todo"
)

// ErrNotFound - запись не существует или принадлежит другому пользователю.
var ErrNotFound = errors.New("todo not found")

// Guard - обертка над коллекцией записей, в которой каждый фильтр дополняется создателем.
type Guard struct {
	coll todo.Collection
	now  func() time.Time
}

// NewGuard - возвращает новый экземпляр Guard. Если now равен nil, используется time.Now.
func NewGuard(coll todo.Collection, now func() time.Time) *Guard {
	if now == nil {
		now = time.Now
	}
	return &Guard{
		coll: coll,
		now:  now,
	}
}

// Create - создает запись от имени пользователя uid.
func (g *Guard) Create(ctx context.Context, uid string, f todo.Fields) (todo.Todo, error) {
	text := strings.TrimSpace(f.Text)
	if !checker.CheckText(text) {
		return todo.Todo{}, fmt.Errorf("%w: text is empty", checker.ErrValidation)
	}
	todoID, err := id.GenerateID()
	if err != nil {
		return todo.Todo{}, err
	}

	t := todo.Todo{
		ID:      todoID,
		Text:    text,
		Creator: uid,
	}
	if err := g.coll.InsertOne(ctx, t); err != nil {
		return todo.Todo{}, fmt.Errorf("failed to insert todo, %w", err)
	}
	return t, nil
}

// ListOwned - возвращает все записи пользователя.
func (g *Guard) ListOwned(ctx context.Context, uid string) ([]todo.Todo, error) {
	todos, err := g.coll.Find(ctx, todo.Filter{Creator: uid})
	if err != nil {
		return nil, fmt.Errorf("failed to find todos, %w", err)
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	return todos, nil
}

// GetOwned - возвращает запись пользователя по идентификатору.
func (g *Guard) GetOwned(ctx context.Context, uid, todoID string) (todo.Todo, error) {
	f, err := owned(uid, todoID)
	if err != nil {
		return todo.Todo{}, err
	}
	t, ok, err := g.coll.FindOne(ctx, f)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("failed to find todo, %w", err)
	}
	if !ok {
		return todo.Todo{}, ErrNotFound
	}
	return t, nil
}

// UpdateOwned - изменяет запись пользователя. Отметка о выполнении устанавливает время выполнения,
// снятие отметки сбрасывает его.
func (g *Guard) UpdateOwned(ctx context.Context, uid, todoID string, p todo.Patch) (todo.Todo, error) {
	f, err := owned(uid, todoID)
	if err != nil {
		return todo.Todo{}, err
	}

	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		if !checker.CheckText(text) {
			return todo.Todo{}, fmt.Errorf("%w: text is empty", checker.ErrValidation)
		}
		p.Text = &text
	}
	p.CompletedAt = nil
	p.ClearCompletedAt = false
	if p.Completed != nil {
		if *p.Completed {
			ms := g.now().UnixMilli()
			p.CompletedAt = &ms
		} else {
			p.ClearCompletedAt = true
		}
	}

	t, ok, err := g.coll.FindOneAndUpdate(ctx, f, p)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("failed to update todo, %w", err)
	}
	if !ok {
		return todo.Todo{}, ErrNotFound
	}
	return t, nil
}

// DeleteOwned - удаляет запись пользователя и возвращает ее.
func (g *Guard) DeleteOwned(ctx context.Context, uid, todoID string) (todo.Todo, error) {
	f, err := owned(uid, todoID)
	if err != nil {
		return todo.Todo{}, err
	}
	t, ok, err := g.coll.DeleteOne(ctx, f)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("failed to delete todo, %w", err)
	}
	if !ok {
		return todo.Todo{}, ErrNotFound
	}
	return t, nil
}

// ClearOwned - удаляет все записи пользователя и возвращает их количество.
func (g *Guard) ClearOwned(ctx context.Context, uid string) (int64, error) {
	n, err := g.coll.DeleteMany(ctx, todo.Filter{Creator: uid})
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos, %w", err)
	}
	return n, nil
}

// owned - фильтр записи с проверкой формата идентификатора.
func owned(uid, todoID string) (todo.Filter, error) {
	if !id.IsValid(todoID) {
		return todo.Filter{}, fmt.Errorf("%w: todo id is not valid", checker.ErrValidation)
	}
	return todo.Filter{ID: todoID, Creator: uid}, nil
}

package todo

//go:generate mockgen -destination=../mocks/mock_todo.go -package=mocks github.com/abezemskiy/todokeeper/internal/repositories/todo Collection

import "context"

// Todo - запись пользователя.
type Todo struct {
	ID          string `json:"_id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt"` // время выполнения в миллисекундах unix, nil если запись не выполнена
	Creator     string `json:"_creator"`    // id пользователя, создавшего запись
}

// Fields - поля новой записи, которые задает пользователь.
type Fields struct {
	Text string `json:"text"`
}

// Patch - изменение записи. Поля со значением nil не изменяются.
type Patch struct {
	Text        *string `json:"text,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	CompletedAt *int64  `json:"-"`
	// ClearCompletedAt - сбросить время выполнения
	ClearCompletedAt bool `json:"-"`
}

// Filter - фильтр по равенству полей. Пустые поля не участвуют в отборе.
type Filter struct {
	ID      string
	Creator string
}

// Match - проверяет, подходит ли запись под фильтр.
func (f Filter) Match(t Todo) bool {
	if f.ID != "" && f.ID != t.ID {
		return false
	}
	if f.Creator != "" && f.Creator != t.Creator {
		return false
	}
	return true
}

// Apply - применяет изменение к записи.
func (p Patch) Apply(t Todo) Todo {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.ClearCompletedAt {
		t.CompletedAt = nil
	}
	if p.CompletedAt != nil {
		v := *p.CompletedAt
		t.CompletedAt = &v
	}
	return t
}

// Collection - коллекция записей с операциями в стиле документной БД.
// Операции возвращают ok == false, если под фильтр не попала ни одна запись.
type Collection interface {
	InsertOne(ctx context.Context, t Todo) error
	FindOne(ctx context.Context, f Filter) (Todo, bool, error)
	Find(ctx context.Context, f Filter) ([]Todo, error)
	FindOneAndUpdate(ctx context.Context, f Filter, p Patch) (Todo, bool, error)
	DeleteOne(ctx context.Context, f Filter) (Todo, bool, error)
	DeleteMany(ctx context.Context, f Filter) (int64, error)
}

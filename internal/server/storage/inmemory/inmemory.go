// inmemory - потокобезопасное хранилище сервера в оперативной памяти.
// Каждая операция атомарна на уровне одного документа, как и в PostgreSQL-хранилище.
package inmemory

import (
	"context"
	"sync"

	"github.com/abezemskiy/todokeeper/internal/repositories/identity"
	"github.com/abezemskiy/todokeeper/internal/repositories/todo"
)

// Store - реализует storage.IServerStorage в оперативной памяти.
type Store struct {
	mu     sync.RWMutex
	users  map[string]identity.Identity // ключ - id пользователя
	logins map[string]string            // логин -> id пользователя
	todos  []todo.Todo                  // записи в порядке добавления
}

// NewStore - возвращает новый экземпляр хранилища.
func NewStore() *Store {
	return &Store{
		users:  make(map[string]identity.Identity),
		logins: make(map[string]string),
	}
}

// Bootstrap - хранилищу в памяти подготовка не требуется.
func (s *Store) Bootstrap(_ context.Context) error {
	return nil
}

// DeleteAll - удаляет всех пользователей и все записи.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]identity.Identity)
	s.logins = make(map[string]string)
	s.todos = nil
	return nil
}

// Create - сохраняет нового пользователя с пустым списком токенов.
func (s *Store) Create(ctx context.Context, login, hash, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logins[login]; ok {
		return identity.ErrDuplicateContact
	}
	s.logins[login] = id
	s.users[id] = identity.Identity{ID: id, Login: login, Hash: hash}
	return nil
}

// FindByLogin - ищет пользователя по логину.
func (s *Store) FindByLogin(ctx context.Context, login string) (identity.Identity, bool, error) {
	if err := ctx.Err(); err != nil {
		return identity.Identity{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.logins[login]
	if !ok {
		return identity.Identity{}, false, nil
	}
	return clone(s.users[id]), true, nil
}

// FindByID - ищет пользователя по идентификатору.
func (s *Store) FindByID(ctx context.Context, id string) (identity.Identity, bool, error) {
	if err := ctx.Err(); err != nil {
		return identity.Identity{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return identity.Identity{}, false, nil
	}
	return clone(u), true, nil
}

// FindByValidToken - ищет пользователя, в списке токенов которого есть переданная пара.
func (s *Store) FindByValidToken(ctx context.Context, t identity.Token) (identity.Identity, bool, error) {
	if err := ctx.Err(); err != nil {
		return identity.Identity{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.HasToken(t) {
			return clone(u), true, nil
		}
	}
	return identity.Identity{}, false, nil
}

// AppendToken - добавляет токен пользователю, если такой пары ещё нет.
func (s *Store) AppendToken(ctx context.Context, id string, t identity.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.HasToken(t) {
		return nil
	}
	tokens := make([]identity.Token, len(u.Tokens), len(u.Tokens)+1)
	copy(tokens, u.Tokens)
	u.Tokens = append(tokens, t)
	s.users[id] = u
	return nil
}

// RemoveToken - удаляет у пользователя только совпадающую пару.
func (s *Store) RemoveToken(ctx context.Context, id string, t identity.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil
	}
	tokens := make([]identity.Token, 0, len(u.Tokens))
	for _, have := range u.Tokens {
		if have != t {
			tokens = append(tokens, have)
		}
	}
	u.Tokens = tokens
	s.users[id] = u
	return nil
}

// UpdateSecret - заменяет хэш пароля пользователя и отзывает все его токены.
func (s *Store) UpdateSecret(ctx context.Context, id, hash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	u.Hash = hash
	u.Tokens = nil
	s.users[id] = u
	return true, nil
}

// InsertOne - добавляет запись.
func (s *Store) InsertOne(ctx context.Context, t todo.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = append(s.todos, t)
	return nil
}

// FindOne - возвращает первую запись, подходящую под фильтр.
func (s *Store) FindOne(ctx context.Context, f todo.Filter) (todo.Todo, bool, error) {
	if err := ctx.Err(); err != nil {
		return todo.Todo{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.todos {
		if f.Match(t) {
			return t, true, nil
		}
	}
	return todo.Todo{}, false, nil
}

// Find - возвращает все записи, подходящие под фильтр.
func (s *Store) Find(ctx context.Context, f todo.Filter) ([]todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]todo.Todo, 0)
	for _, t := range s.todos {
		if f.Match(t) {
			result = append(result, t)
		}
	}
	return result, nil
}

// FindOneAndUpdate - изменяет первую подходящую запись и возвращает её новое состояние.
func (s *Store) FindOneAndUpdate(ctx context.Context, f todo.Filter, p todo.Patch) (todo.Todo, bool, error) {
	if err := ctx.Err(); err != nil {
		return todo.Todo{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.todos {
		if f.Match(t) {
			s.todos[i] = p.Apply(t)
			return s.todos[i], true, nil
		}
	}
	return todo.Todo{}, false, nil
}

// DeleteOne - удаляет первую подходящую запись и возвращает её.
func (s *Store) DeleteOne(ctx context.Context, f todo.Filter) (todo.Todo, bool, error) {
	if err := ctx.Err(); err != nil {
		return todo.Todo{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.todos {
		if f.Match(t) {
			s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
			return t, true, nil
		}
	}
	return todo.Todo{}, false, nil
}

// DeleteMany - удаляет все подходящие записи и возвращает их количество.
func (s *Store) DeleteMany(ctx context.Context, f todo.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]todo.Todo, 0, len(s.todos))
	var deleted int64
	for _, t := range s.todos {
		if f.Match(t) {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	s.todos = kept
	return deleted, nil
}

// clone - копирует пользователя вместе со списком токенов.
func clone(u identity.Identity) identity.Identity {
	u.Tokens = append([]identity.Token(nil), u.Tokens...)
	return u
}

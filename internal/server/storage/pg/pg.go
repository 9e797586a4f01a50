package pg

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abezemskiy/todokeeper/internal/repositories/identity"
	"github.com/abezemskiy/todokeeper/internal/repositories/todo"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store - реализует интерфейс storage.IServerStorage и позволяет взаимодествовать с СУБД PostgreSQL.
type Store struct {
	// Поле conn содержит объект соединения с СУБД
	conn *sql.DB
	dsn  string
}

// NewStore - подключается к БД и возвращает новый экземпляр PostgreSQL-хранилища.
// Для создания таблиц необходимо вызвать Bootstrap.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connection to database: %w", err)
	}

	// Проверка соединения с БД
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error checking connection with database: %w", err)
	}

	return &Store{
		conn: db,
		dsn:  dsn,
	}, nil
}

// Close - закрывает соединение с БД.
func (s *Store) Close() error {
	return s.conn.Close()
}

//go:embed migrations/*.sql
var migrationsDir embed.FS

// Bootstrap - подготавливает БД к работе, применяя миграции.
func (s *Store) Bootstrap(_ context.Context) error {
	d, err := iofs.New(migrationsDir, "migrations")
	if err != nil {
		return fmt.Errorf("failed to return an iofs driver: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, s.dsn)
	if err != nil {
		return fmt.Errorf("failed to get a new migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to apply migrations to the DB: %w", err)
		}
	}
	return nil
}

// DeleteAll - очищает БД, удаляя записи из таблиц.
// Метод необходим для тестирования, чтобы в процессе удалять тестовые записи.
func (s *Store) DeleteAll(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `TRUNCATE TABLE users, todos`)
	if err != nil {
		return fmt.Errorf("truncate tables error, %w", err)
	}
	return nil
}

// Create - сохраняет в базу данные нового пользователя.
func (s *Store) Create(ctx context.Context, login, hash, id string) error {
	query := `
	INSERT INTO users (id, login, hash)
	VALUES ($1, $2, $3)
`
	stmt, err := s.conn.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare context error, %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, id, login, hash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Код ошибки 23505 - unique_violation, пользователь с таким логином уже существует
			return identity.ErrDuplicateContact
		}
		return fmt.Errorf("query execution error, %w", err)
	}
	return nil
}

// FindByLogin - ищет пользователя по логину.
func (s *Store) FindByLogin(ctx context.Context, login string) (identity.Identity, bool, error) {
	return s.findOneUser(ctx, `WHERE login = $1`, login)
}

// FindByID - ищет пользователя по идентификатору.
func (s *Store) FindByID(ctx context.Context, id string) (identity.Identity, bool, error) {
	return s.findOneUser(ctx, `WHERE id = $1`, id)
}

// FindByValidToken - ищет пользователя, в массиве токенов которого есть переданная пара.
func (s *Store) FindByValidToken(ctx context.Context, t identity.Token) (identity.Identity, bool, error) {
	pair, err := json.Marshal([]identity.Token{t})
	if err != nil {
		return identity.Identity{}, false, fmt.Errorf("marshal token error, %w", err)
	}
	return s.findOneUser(ctx, `WHERE tokens @> $1::jsonb`, string(pair))
}

func (s *Store) findOneUser(ctx context.Context, where string, arg any) (identity.Identity, bool, error) {
	query := `
	SELECT  id,
			login,
			hash,
			tokens
	FROM users
	` + where + `
	LIMIT 1
`
	var (
		u      identity.Identity
		tokens []byte
	)
	err := s.conn.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Login, &u.Hash, &tokens)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.Identity{}, false, nil
		}
		return identity.Identity{}, false, fmt.Errorf("scan row error, %w", err)
	}
	if err := json.Unmarshal(tokens, &u.Tokens); err != nil {
		return identity.Identity{}, false, fmt.Errorf("unmarshal tokens error, %w", err)
	}
	return u, true, nil
}

// AppendToken - добавляет пару в массив токенов одним запросом, без чтения документа.
// Если такая пара уже есть, запрос ничего не меняет.
func (s *Store) AppendToken(ctx context.Context, id string, t identity.Token) error {
	pair, err := json.Marshal([]identity.Token{t})
	if err != nil {
		return fmt.Errorf("marshal token error, %w", err)
	}
	query := `
	UPDATE users
	SET tokens = tokens || $2::jsonb
	WHERE id = $1 AND NOT tokens @> $2::jsonb
`
	if _, err := s.conn.ExecContext(ctx, query, id, string(pair)); err != nil {
		return fmt.Errorf("query execution error, %w", err)
	}
	return nil
}

// RemoveToken - удаляет пару из массива токенов одним запросом, сохраняя порядок остальных.
func (s *Store) RemoveToken(ctx context.Context, id string, t identity.Token) error {
	elem, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal token error, %w", err)
	}
	query := `
	UPDATE users
	SET tokens = COALESCE((
		SELECT jsonb_agg(e ORDER BY ord)
		FROM jsonb_array_elements(tokens) WITH ORDINALITY AS x(e, ord)
		WHERE e <> $2::jsonb
	), '[]'::jsonb)
	WHERE id = $1 AND tokens @> jsonb_build_array($2::jsonb)
`
	if _, err := s.conn.ExecContext(ctx, query, id, string(elem)); err != nil {
		return fmt.Errorf("query execution error, %w", err)
	}
	return nil
}

// UpdateSecret - заменяет хэш пароля пользователя и тем же запросом очищает список его токенов.
// Если пользователь не найден, возвращается false.
func (s *Store) UpdateSecret(ctx context.Context, id, hash string) (bool, error) {
	result, err := s.conn.ExecContext(ctx, `UPDATE users SET hash = $2, tokens = '[]'::jsonb WHERE id = $1`, id, hash)
	if err != nil {
		return false, fmt.Errorf("query execution error, %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows, %w", err)
	}
	return rowsAffected > 0, nil
}

const todoColumns = `id, text, completed, completed_at, creator`

// where - строит условие отбора по фильтру. Номера параметров начинаются с offset+1.
func where(f todo.Filter, offset int) (string, []any) {
	conds := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if f.ID != "" {
		args = append(args, f.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", offset+len(args)))
	}
	if f.Creator != "" {
		args = append(args, f.Creator)
		conds = append(conds, fmt.Sprintf("creator = $%d", offset+len(args)))
	}
	if len(conds) == 0 {
		return "TRUE", args
	}
	return strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (todo.Todo, error) {
	var (
		t  todo.Todo
		at sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.Text, &t.Completed, &at, &t.Creator); err != nil {
		return todo.Todo{}, err
	}
	if at.Valid {
		v := at.Int64
		t.CompletedAt = &v
	}
	return t, nil
}

// InsertOne - добавляет запись.
func (s *Store) InsertOne(ctx context.Context, t todo.Todo) error {
	query := `
	INSERT INTO todos (` + todoColumns + `)
	VALUES ($1, $2, $3, $4, $5)
`
	_, err := s.conn.ExecContext(ctx, query, t.ID, t.Text, t.Completed, t.CompletedAt, t.Creator)
	if err != nil {
		return fmt.Errorf("query execution error, %w", err)
	}
	return nil
}

// FindOne - возвращает первую подходящую под фильтр запись.
func (s *Store) FindOne(ctx context.Context, f todo.Filter) (todo.Todo, bool, error) {
	cond, args := where(f, 0)
	query := `SELECT ` + todoColumns + ` FROM todos WHERE ` + cond + ` ORDER BY seq LIMIT 1`

	t, err := scanTodo(s.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return todo.Todo{}, false, nil
		}
		return todo.Todo{}, false, fmt.Errorf("scan row error, %w", err)
	}
	return t, true, nil
}

// Find - возвращает все подходящие под фильтр записи в порядке добавления.
func (s *Store) Find(ctx context.Context, f todo.Filter) ([]todo.Todo, error) {
	cond, args := where(f, 0)
	query := `SELECT ` + todoColumns + ` FROM todos WHERE ` + cond + ` ORDER BY seq`

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query execution error, %w", err)
	}
	defer rows.Close()

	result := make([]todo.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error, %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FindOneAndUpdate - изменяет первую подходящую запись и возвращает её новое состояние.
func (s *Store) FindOneAndUpdate(ctx context.Context, f todo.Filter, p todo.Patch) (todo.Todo, bool, error) {
	cond, args := where(f, 4)
	query := `
	UPDATE todos
	SET text = COALESCE($1::text, text),
		completed = COALESCE($2::boolean, completed),
		completed_at = CASE WHEN $3::boolean THEN NULL ELSE COALESCE($4::bigint, completed_at) END
	WHERE id = (SELECT id FROM todos WHERE ` + cond + ` ORDER BY seq LIMIT 1)
	RETURNING ` + todoColumns

	params := append([]any{p.Text, p.Completed, p.ClearCompletedAt, p.CompletedAt}, args...)
	t, err := scanTodo(s.conn.QueryRowContext(ctx, query, params...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return todo.Todo{}, false, nil
		}
		return todo.Todo{}, false, fmt.Errorf("query execution error, %w", err)
	}
	return t, true, nil
}

// DeleteOne - удаляет первую подходящую запись и возвращает её.
func (s *Store) DeleteOne(ctx context.Context, f todo.Filter) (todo.Todo, bool, error) {
	cond, args := where(f, 0)
	query := `
	DELETE FROM todos
	WHERE id = (SELECT id FROM todos WHERE ` + cond + ` ORDER BY seq LIMIT 1)
	RETURNING ` + todoColumns

	t, err := scanTodo(s.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return todo.Todo{}, false, nil
		}
		return todo.Todo{}, false, fmt.Errorf("query execution error, %w", err)
	}
	return t, true, nil
}

// DeleteMany - удаляет все подходящие записи и возвращает их количество.
func (s *Store) DeleteMany(ctx context.Context, f todo.Filter) (int64, error) {
	cond, args := where(f, 0)
	result, err := s.conn.ExecContext(ctx, `DELETE FROM todos WHERE `+cond, args...)
	if err != nil {
		return 0, fmt.Errorf("query execution error, %w", err)
	}
	return result.RowsAffected()
}

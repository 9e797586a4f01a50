package storage

import (
	"context"

	"github.com/abezemskiy/todokeeper/internal/repositories/identity"
	"github.com/abezemskiy/todokeeper/internal/repositories/todo"
)

type (
	// Starter - интерфейс для подготовки хранилища к работе.
	Starter interface {
		Bootstrap(context.Context) error
	}

	// IServerStorage - хранилище сервера: учетные записи пользователей и их записи.
	IServerStorage interface {
		identity.Store
		identity.Resetter
		todo.Collection
		Starter
	}
)

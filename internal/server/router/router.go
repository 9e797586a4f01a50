// router - пакет с маршрутизацией http запросов сервера.
package router

import (
	"net/http"
	"time"

	"github.com/abezemskiy/todokeeper/internal/common/identity/tools/token"
	"github.com/abezemskiy/todokeeper/internal/repositories/identity"
	"github.com/abezemskiy/todokeeper/internal/repositories/todo"
	"github.com/abezemskiy/todokeeper/internal/server/handlers"
	"github.com/abezemskiy/todokeeper/internal/server/identity/auth"
	"github.com/abezemskiy/todokeeper/internal/server/identity/session"
	"github.com/abezemskiy/todokeeper/internal/server/logger"
	"github.com/abezemskiy/todokeeper/internal/server/metrics"
	"github.com/abezemskiy/todokeeper/internal/server/ownership"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Storage - хранилище, необходимое обработчикам сервера.
type Storage interface {
	identity.Store
	todo.Collection
}

// New - дирижирует обработку http запросов к серверу.
// Если gatherer равен nil, метрики отдаются из глобального реестра.
func New(stor Storage, codec *token.Codec, gatherer prometheus.Gatherer) chi.Router {
	sessions := session.NewService(stor, codec)
	guard := auth.NewGuard(codec, stor)
	todos := ownership.NewGuard(stor, time.Now)

	r := chi.NewRouter()

	r.Route("/users", func(r chi.Router) {
		r.Post("/", logger.RequestLogger(handlers.RegisterHandler(sessions)))
		r.Post("/login", logger.RequestLogger(handlers.LoginHandler(sessions)))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", logger.RequestLogger(guard.Middleware(http.HandlerFunc(handlers.Me))))
			r.Delete("/token", logger.RequestLogger(guard.Middleware(handlers.LogoutHandler(sessions))))
			r.Patch("/password", logger.RequestLogger(guard.Middleware(handlers.ChangePasswordHandler(sessions))))
		})
	})

	r.Route("/todos", func(r chi.Router) {
		r.Post("/", logger.RequestLogger(guard.Middleware(handlers.CreateTodoHandler(todos))))
		r.Get("/", logger.RequestLogger(guard.Middleware(handlers.ListTodosHandler(todos))))
		r.Delete("/", logger.RequestLogger(guard.Middleware(handlers.ClearTodosHandler(todos))))

		r.Get("/{id}", logger.RequestLogger(guard.Middleware(handlers.GetTodoHandler(todos))))
		r.Patch("/{id}", logger.RequestLogger(guard.Middleware(handlers.UpdateTodoHandler(todos))))
		r.Delete("/{id}", logger.RequestLogger(guard.Middleware(handlers.DeleteTodoHandler(todos))))
	})

	r.Handle("/metrics", metrics.Handler(gatherer))

	// Определяем маршрут по умолчанию для некорректных запросов
	r.NotFound(logger.RequestLogger(handlers.HandleOtherRequest()))

	return r
}

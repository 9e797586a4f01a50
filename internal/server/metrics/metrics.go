// metrics - пакет с метриками Prometheus для слоя аутентификации.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Результаты проверки токена.
const (
	ResultAuthenticated = "authenticated"
	ResultRejected      = "rejected"
	ResultError         = "error"
)

// События жизненного цикла сессий.
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventLogout   = "logout"
	EventFailed   = "login_failed"
)

var (
	// AuthChecks - количество проверок токена по результату.
	AuthChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todokeeper",
		Name:      "auth_checks_total",
		Help:      "Количество проверок токена по результату",
	}, []string{"result"})

	// SessionEvents - количество событий регистрации, входа и выхода.
	SessionEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "todokeeper",
		Name:      "session_events_total",
		Help:      "Количество событий жизненного цикла токенов",
	}, []string{"event"})
)

// Register - регистрирует метрики в реестре (по умолчанию в глобальном).
// Повторная регистрация не считается ошибкой.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{AuthChecks, SessionEvents} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
		}
	}
	return nil
}

// Handler - возвращает обработчик для экспорта метрик.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

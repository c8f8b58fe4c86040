// Package middleware содержит HTTP middleware: аутентификационные заголовки,
// request id и метрики запросов.
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

type actorCtxKey struct{}

// Actor аутентифицированный вызывающий из доверенных заголовков
// Идентификацию выполняет внешний шлюз; ядро доверяет заголовкам
// и проверяет только владение и роль
type Actor struct {
	ID   int64
	Role domain.ActorRole
}

// Auth разбирает X-User-ID и X-User-Role и кладет актора в контекст
// Запросы без заголовков проходят дальше анонимно: публичные ручки
// (доступность слотов) работают и без актора
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(headerUserID)
		if rawID == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || id <= 0 {
			handlers.RespondBadRequest(w, "некорректный заголовок X-User-ID")
			return
		}

		role := domain.ActorRole(r.Header.Get(headerUserRole))
		switch role {
		case domain.RoleCustomer, domain.RoleProfessional, domain.RoleAdmin:
		case "":
			role = domain.RoleCustomer
		default:
			handlers.RespondBadRequest(w, "некорректный заголовок X-User-Role")
			return
		}

		ctx := context.WithValue(r.Context(), actorCtxKey{}, Actor{ID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext возвращает актора запроса, если он аутентифицирован
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorCtxKey{}).(Actor)
	return actor, ok
}

package httptransport

import (
	"context"
	"net/http"

	"duel-arena/internal/arena"
	"duel-arena/internal/config"
	"duel-arena/internal/users"
	"duel-arena/internal/ws"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Directory *users.Directory
	Store     *arena.Store
	Hub       *ws.Hub
	Judge     *arena.Judge
	JudgeCtx  context.Context
	Server    config.ServerConfig
	Judging   config.JudgeConfig
}

func NewRouter(d Deps) *chi.Mux {
	userHandlers := NewUserHandlers(d.Directory)
	roomHandlers := NewRoomHandlers(d.Store, d.Hub, d.Judge, d.JudgeCtx, d.Server.PublicBaseURL, d.Judging.DefaultProblem)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"ok": true})
	})

	// The upgrade request must not pass through the request logger; it
	// hijacks the connection.
	r.Get("/ws", d.Hub.HandleWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Post("/users/register", userHandlers.Register())

		r.Group(func(r chi.Router) {
			r.Use(RequireUser(d.Directory))
			r.Get("/rooms", roomHandlers.List())
			r.Post("/rooms", roomHandlers.Create())
			r.Get("/rooms/{room_id}", roomHandlers.Status())
			r.Post("/rooms/{room_id}/join", roomHandlers.Join())
			r.Post("/rooms/{room_id}/leave", roomHandlers.Leave())
			r.Post("/rooms/{room_id}/proposals", roomHandlers.ProposeAddition())
			r.Post("/rooms/{room_id}/proposals/accept", roomHandlers.ResolveAddition(true))
			r.Post("/rooms/{room_id}/proposals/reject", roomHandlers.ResolveAddition(false))
			r.Post("/rooms/{room_id}/deletions", roomHandlers.ProposeDeletion())
			r.Post("/rooms/{room_id}/deletions/accept", roomHandlers.ResolveDeletion(true))
			r.Post("/rooms/{room_id}/deletions/reject", roomHandlers.ResolveDeletion(false))
		})
	})

	return r
}

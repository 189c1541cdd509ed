package http

import (
	"net/http"
	"time"

	httpmw "github.com/atoz-servo/lobby-service/internal/transport/http/middleware"
	"github.com/atoz-servo/lobby-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-Display-Name"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// live-подписки
	r.Get("/ws/lobby", wsServer.HandleLobby)
	r.Get("/ws/rooms/{id}", wsServer.HandleRoom)

	// Все маршруты требуют установленного display name
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.DisplayNameMiddleware)
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Route("/rooms", func(rm chi.Router) {
			rm.Post("/", h.CreateRoom)
			rm.Post("/quick", h.CreateQuickRoom)
			rm.Get("/", h.ListRooms)

			rm.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetRoom)
				rr.Post("/join", h.JoinRoom)
				rr.Post("/leave", h.LeaveRoom)
				rr.Get("/messages", h.GetMessages)
				rr.Post("/messages", h.SendMessage)
				rr.Post("/call/start", h.StartCall)
				rr.Post("/call/end", h.EndCall)
			})
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

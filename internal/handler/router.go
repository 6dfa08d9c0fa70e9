package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mindwell-ai/mindwell/backend/internal/handler/chat"
	"github.com/mindwell-ai/mindwell/backend/internal/handler/health"
	"github.com/mindwell-ai/mindwell/backend/internal/handler/realtime"
	"github.com/mindwell-ai/mindwell/backend/internal/handler/stream"
	"github.com/mindwell-ai/mindwell/backend/internal/handler/tips"
	"github.com/mindwell-ai/mindwell/backend/internal/handler/wellness"
	middlewarePkg "github.com/mindwell-ai/mindwell/backend/internal/middleware"
	tipsModel "github.com/mindwell-ai/mindwell/backend/internal/model/tips"
	chatService "github.com/mindwell-ai/mindwell/backend/internal/service/chat"
	wellnessService "github.com/mindwell-ai/mindwell/backend/internal/service/wellness"
)

// Deps holds the services exposed over HTTP.
type Deps struct {
	Chat           *chatService.Service
	Wellness       *wellnessService.Service
	Tips           tipsModel.Store
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	chatHandler := chat.New(deps.Chat)
	streamHandler := stream.New(deps.Chat)
	wsHandler := realtime.New(deps.Chat, middlewarePkg.OriginChecker(deps.AllowedOrigins))
	tipsHandler := tips.New(deps.Tips)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
		tipsHandler.RegisterRoutes(api)
	})

	wellness.New(deps.Wellness).RegisterRoutes(r)
	health.New(deps.Chat.Available).RegisterRoutes(r)

	return r
}

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/turmab/helpdesk/internal/chamado"
	"github.com/turmab/helpdesk/internal/config"
	"github.com/turmab/helpdesk/internal/db"
	"github.com/turmab/helpdesk/internal/http/apierror"
	httpmiddleware "github.com/turmab/helpdesk/internal/http/middleware"
	"github.com/turmab/helpdesk/internal/pessoa"
	"github.com/turmab/helpdesk/internal/service"
)

// rotas acessíveis sem principal
var publicPaths = []string{"/login", "/health", "/ready"}

// Services agrupa as dependências de domínio dos handlers.
type Services struct {
	Auth     *service.AuthService
	RBAC     *service.RBACService
	Tecnicos *pessoa.Service
	Clientes *pessoa.Service
	Chamados *chamado.Service
}

type Handler struct {
	cfg           *config.Config
	pool          db.Pool
	redis         *redis.Client
	auth          *service.AuthService
	rbac          *service.RBACService
	tecnicos      *pessoaHandler
	clientes      *pessoaHandler
	chamados      *chamadoHandler
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter monta stores e serviços sobre o pool e devolve o roteador configurado.
func NewRouter(cfg *config.Config, pool db.Pool, redisClient *redis.Client, authService *service.AuthService) (http.Handler, error) {
	pessoas := pessoa.NewRepository(pool)
	chamados := chamado.NewRepository(pool)
	guard := pessoa.NewGuard(pessoas, chamados)

	tecnicos := pessoa.NewService(pessoa.Tecnico, pessoas, guard)
	clientes := pessoa.NewService(pessoa.Cliente, pessoas, guard)

	h := NewHandler(cfg, pool, redisClient, Services{
		Auth:     authService,
		RBAC:     service.NewRBACService(),
		Tecnicos: tecnicos,
		Clientes: clientes,
		Chamados: chamado.NewService(chamados, tecnicos, clientes),
	})
	return h.Routes(), nil
}

// NewHandler cria o handler; redisClient pode ser nil.
func NewHandler(cfg *config.Config, pool db.Pool, redisClient *redis.Client, svc Services) *Handler {
	if svc.RBAC == nil {
		svc.RBAC = service.NewRBACService()
	}
	return &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		auth:          svc.Auth,
		rbac:          svc.RBAC,
		tecnicos:      &pessoaHandler{svc: svc.Tecnicos, chamados: svc.Chamados},
		clientes:      &pessoaHandler{svc: svc.Clientes, chamados: svc.Chamados},
		chamados:      &chamadoHandler{svc: svc.Chamados},
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}
}

// Routes devolve o roteador com middlewares globais, rotas públicas e protegidas.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(httpmiddleware.NewClientIP(h.cfg.TrustedProxies).Middleware)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(h.cfg.AllowOrigins))
	r.Use(httpmiddleware.Authenticate(h.auth.JWT(), h.auth))
	r.Use(httpmiddleware.RequirePrincipal(publicPaths...))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)
		public.Post("/login", h.Login)
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		private.Get("/me", h.Me)
		private.Route("/tecnicos", func(t chi.Router) {
			h.tecnicos.mount(t, h.rbac.Authorities(service.ActionManageTecnicos))
		})
		private.Route("/clientes", func(c chi.Router) {
			h.clientes.mount(c, h.rbac.Authorities(service.ActionManageClientes))
		})
		private.Route("/chamados", func(c chi.Router) {
			h.chamados.mount(c, h.rbac.Authorities(service.ActionDeleteChamado))
		})
	})

	return r
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida conexões com Postgres e, quando configurado, Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbErr := h.pool.Ping(ctx)
	var redisErr error
	if h.redis != nil {
		redisErr = h.redis.Ping(ctx).Err()
	}

	if dbErr != nil || redisErr != nil {
		log.Warn().AnErr("db", dbErr).AnErr("redis", redisErr).Msg("ready: dependências indisponíveis")
		apierror.Write(w, r, http.StatusServiceUnavailable, apierror.LabelUnavailable, "Dependências indisponíveis")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

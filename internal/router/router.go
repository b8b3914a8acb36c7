package router

import (
	"time"

	"github.com/marvingbh/clinica-sub005/internal/config"
	"github.com/marvingbh/clinica-sub005/internal/handler"
	"github.com/marvingbh/clinica-sub005/internal/middleware"
	"github.com/marvingbh/clinica-sub005/internal/repository"
	"github.com/marvingbh/clinica-sub005/internal/service"
	"github.com/marvingbh/clinica-sub005/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigin))
	r.Use(middleware.ErrorHandler())

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clinicaRepo := repository.NewClinicaRepository(db)
	profissionalRepo := repository.NewProfissionalRepository(db)
	pacienteRepo := repository.NewPacienteRepository(db)
	agendamentoRepo := repository.NewAgendamentoRepository(db)
	recorrenciaRepo := repository.NewRecorrenciaRepository(db)
	creditoRepo := repository.NewCreditoRepository(db)
	faturaRepo := repository.NewFaturaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	agendaSvc := service.NewAgendaService(agendamentoRepo, pacienteRepo, creditoRepo, dispatcher)
	faturaSvc := service.NewFaturaService(faturaRepo, agendamentoRepo, creditoRepo,
		pacienteRepo, profissionalRepo, clinicaRepo, recorrenciaRepo, dispatcher, cfg)
	repasseSvc := service.NewRepasseService(faturaRepo, profissionalRepo, pacienteRepo, clinicaRepo)
	creditoSvc := service.NewCreditoService(creditoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	agendaH := handler.NewAgendaHandler(agendaSvc)
	faturasH := handler.NewFaturasHandler(faturaSvc)
	repasseH := handler.NewRepasseHandler(repasseSvc)
	creditosH := handler.NewCreditosHandler(creditoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	// Quota runs after JWTAuth so each clinic gets its own budget.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW, middleware.RateLimiter(1000, time.Minute))
	{
		// Roles: secretaria, profissional, administrador — declared per-endpoint
		v1.PATCH("/agendamentos/:id/status",
			middleware.RequireRole("secretaria", "profissional", "administrador"),
			agendaH.AtualizarStatus)

		faturas := v1.Group("/faturas", middleware.RequireRole("secretaria", "administrador"))
		{
			faturas.POST("/gerar", faturasH.Gerar)
			faturas.GET("", faturasH.Listar)
			faturas.POST("/:id/itens", faturasH.AdicionarItem)
			faturas.PATCH("/:id/status", faturasH.AtualizarStatus)
			faturas.DELETE("/:id", faturasH.Excluir)
		}

		// Repasse exposes professional earnings — not for the front desk.
		v1.GET("/repasse",
			middleware.RequireRole("profissional", "administrador"),
			repasseH.Relatorio)

		v1.GET("/creditos",
			middleware.RequireRole("secretaria", "profissional", "administrador"),
			creditosH.Listar)

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

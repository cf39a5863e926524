package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ferramentas-api/internal/application/auth"
	"github.com/jhoicas/Ferramentas-api/internal/application/inventory"
	"github.com/jhoicas/Ferramentas-api/internal/application/report"
	"github.com/jhoicas/Ferramentas-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	AuthUC           *auth.AuthUseCase
	ReportUC         *report.ReportUseCase
	Health           HealthChecker
	JWTSecret        string
}

// Router registra las rutas de la API. Todas son públicas; el token, si viene, solo
// identifica al usuario.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", NewHealthHandler(deps.Health).Check)

	// Usuarios y auth: antes del middleware, un token vencido no impide volver a entrar.
	authHandler := NewAuthHandler(deps.AuthUC)
	app.Post("/usuarios", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)

	api := app.Group("/", AuthMiddleware(deps.JWTSecret))

	// Produtos (abaixo-do-minimo antes de /:id)
	products := api.Group("/produtos")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/abaixo-do-minimo", productHandler.ListBelowMinimum)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", productHandler.Create)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Movimentações
	movements := api.Group("/movimentacoes")
	movementHandler := NewMovementHandler(deps.RegisterMovement)
	movements.Post("/", movementHandler.Record)
	movements.Get("/", movementHandler.List)

	// Relatórios
	if deps.ReportUC != nil {
		reportHandler := NewReportHandler(deps.ReportUC)
		api.Get("/relatorios/estoque-baixo.pdf", reportHandler.LowStockPDF)
	}
}

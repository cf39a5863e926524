// @title        Ferramentas API
// @version      1.0
// @description  API de controle de estoque de ferramentas: produtos, movimentações e usuários.
// @BasePath     /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	"github.com/jhoicas/Ferramentas-api/docs"
	"github.com/jhoicas/Ferramentas-api/internal/application/auth"
	"github.com/jhoicas/Ferramentas-api/internal/application/inventory"
	"github.com/jhoicas/Ferramentas-api/internal/application/report"
	"github.com/jhoicas/Ferramentas-api/internal/application/usecase"
	"github.com/jhoicas/Ferramentas-api/internal/domain/repository"
	"github.com/jhoicas/Ferramentas-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Ferramentas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Ferramentas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ferramentas-api/internal/infrastructure/rabbitmq"
	httpRouter "github.com/jhoicas/Ferramentas-api/internal/interfaces/http"
	"github.com/jhoicas/Ferramentas-api/pkg/config"
	"github.com/jhoicas/Ferramentas-api/pkg/logger"
)

// storeDeps repositorios y runner del backend elegido por STORE_DRIVER.
type storeDeps struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	users     repository.UserRepository
	txRunner  inventory.TxRunner
	health    httpRouter.HealthChecker
	close     func()
}

func openStore(ctx context.Context, cfg *config.Config) (storeDeps, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		store := memory.NewStore()
		return storeDeps{
			products:  memory.NewProductRepository(store),
			movements: memory.NewMovementRepository(store),
			users:     memory.NewUserRepository(store),
			txRunner:  memory.NewTxRunner(store),
			health:    store,
			close:     func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return storeDeps{}, err
	}
	return storeDeps{
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		users:     postgres.NewUserRepository(pool),
		txRunner:  postgres.NewTxRunner(pool),
		health:    pool,
		close:     pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer store.close()

	// Eventos de movimientos: opcionales, el API funciona sin broker.
	var publisher inventory.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewPublisher(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange})
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ no disponible, eventos desactivados")
		} else {
			defer mq.Close()
			publisher = mq
			log.Info().Str("exchange", cfg.RabbitMQ.Exchange).Msg("publicación de eventos activa")
		}
	}

	productUC := usecase.NewProductUseCase(store.products)
	registerMovementUC := inventory.NewRegisterMovementUseCase(store.txRunner, store.movements, publisher)
	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	reportUC := report.NewReportUseCase(productUC, infrapdf.NewMarotoPDFGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(httpRouter.RequestLogger())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.AllowOrigins}))

	// Documento OpenAPI embebido; la UI solo si hay archivo configurado.
	app.Get("/swagger.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})
	if cfg.Docs.SwaggerFile != "" {
		// Swagger UI en local: http://localhost:<port>/docs
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.SwaggerFile,
			Path:     "docs",
			Title:    "Ferramentas API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		RegisterMovement: registerMovementUC,
		AuthUC:           authUC,
		ReportUC:         reportUC,
		Health:           store.health,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

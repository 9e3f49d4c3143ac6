package main

import (
	"context"
	"fmt"
	"time"

	common_api "crm-analytics/internal/common/api"
	"crm-analytics/internal/config"
	"crm-analytics/internal/database"
	"crm-analytics/internal/features/audit"
	"crm-analytics/internal/features/dashboard"
	"crm-analytics/internal/features/execution"
	"crm-analytics/internal/features/folder"
	"crm-analytics/internal/features/report"
	"crm-analytics/internal/features/system"
	"crm-analytics/internal/logger"
	"crm-analytics/internal/middleware"
	"crm-analytics/internal/upstream"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          common_api.ErrorHandler(log),
	})

	app.Use(middleware.CORSMiddleware(cfg.AllowOrigins))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.UserMiddleware())
	app.Use(middleware.MetricsMiddleware())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, log *zap.Logger, routes []common_api.Route) {
	for _, route := range routes {
		log.Debug("registering routes", zap.String("api", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
	log.Info("routes registered", zap.Int("apis", len(routes)))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, ``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				log.Info("listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Fatal("server failed to start", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, db *database.MongodbDB, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				err := db.EnsureIndexes(ctx,
					report.Indexes(),
					dashboard.Indexes(),
					folder.Indexes(),
					audit.Indexes(),
				)
				if err != nil {
					log.Warn("failed to ensure indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,
			func(db *database.MongodbDB) system.Pinger { return db },

			// Upstream CRM services
			upstream.NewClient,
			upstream.NewSource,

			// Initialize Repository
			audit.NewAuditRepository,
			folder.NewFolderRepository,
			report.NewReportRepository,
			dashboard.NewDashboardRepository,

			// Initialize Service
			audit.NewAuditService,
			execution.NewExecutionService,
			folder.NewFolderService,
			report.NewReportService,
			dashboard.NewDashboardService,

			// Initialize Controller
			audit.NewAuditController,
			execution.NewExecutionController,
			folder.NewFolderController,
			report.NewReportController,
			dashboard.NewDashboardController,
			system.NewHealthController,
			system.NewDebugController,

			// Initialize API Routes
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewDebugApi),
			AsRoute(execution.NewExecutionApi),
			AsRoute(report.NewReportApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(folder.NewFolderApi),
			AsRoute(audit.NewAuditApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
		),
	)

	app.Run()
}

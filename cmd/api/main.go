package main

import (
	"context"
	"fmt"
	common_api "go-docdist/internal/common/api"
	"go-docdist/internal/config"
	"go-docdist/internal/database"
	cron_feature "go-docdist/internal/features/cron"
	"go-docdist/internal/features/department"
	"go-docdist/internal/features/distribution"
	"go-docdist/internal/features/disttype"
	"go-docdist/internal/features/document"
	"go-docdist/internal/features/history"
	"go-docdist/internal/features/notification"
	"go-docdist/internal/features/report"
	"go-docdist/internal/features/system"
	"go-docdist/internal/features/user"
	"go-docdist/internal/logger"
	"go-docdist/internal/middleware"
	"go-docdist/pkg/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	utils.SetSecret(cfg.JWTSecret)

	app.Use(middleware.CORSMiddleware())
	app.Use(middleware.AuthMiddleware(cfg.SkipAuth))

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
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	distRepo distribution.DistributionRepository,
	docRepo distribution.DocumentRepository,
	counterRepo distribution.CounterRepository,
	historyRepo history.HistoryRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := distRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure distribution indexes: %v", err)
				}
				if err := docRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure distribution document indexes: %v", err)
				}
				if err := counterRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure counter indexes: %v", err)
				}
				if err := historyRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure history indexes: %v", err)
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

			// Initialize Repository
			department.NewDepartmentRepository,
			disttype.NewTypeRepository,
			document.NewInvoiceRepository,
			document.NewSupportingRepository,
			distribution.NewDistributionRepository,
			distribution.NewDocumentRepository,
			distribution.NewCounterRepository,
			history.NewHistoryRepository,
			notification.NewNotificationRepository,
			user.NewUserRepository,

			document.NewLocator,
			distribution.NewNumberGenerator,
			notification.NewHub,

			department.NewDepartmentService,
			disttype.NewTypeService,
			history.NewHistoryService,
			notification.NewNotificationService,
			distribution.NewDistributionService,
			report.NewReportService,
			cron_feature.NewReminderService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(m *database.MongodbDB) database.TxRunner { return m },
			func(l *document.Locator) distribution.DocumentGateway { return l },
			func(s department.DepartmentService) distribution.DepartmentFinder { return s },
			func(s disttype.TypeService) distribution.TypeFinder { return s },
			func(s history.HistoryService) distribution.HistoryRecorder { return s },
			func(s notification.NotificationService) distribution.Notifier { return s },
			func(r user.UserRepository) history.UserFinder { return r },

			// Initialize Controller
			department.NewDepartmentController,
			disttype.NewTypeController,
			distribution.NewDistributionController,
			history.NewHistoryController,
			notification.NewNotificationController,
			report.NewReportController,
			cron_feature.NewReminderController,

			// Initialize API Routes
			AsRoute(department.NewDepartmentAPI),
			AsRoute(disttype.NewTypeAPI),
			AsRoute(distribution.NewDistributionAPI),
			AsRoute(history.NewHistoryAPI),
			AsRoute(notification.NewNotificationAPI),
			AsRoute(report.NewReportAPI),
			AsRoute(cron_feature.NewReminderAPI),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, reminders cron_feature.ReminderService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return reminders.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return reminders.StopScheduler()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}

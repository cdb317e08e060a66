package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ahmed7gendy/hr-edecs/api"
	"github.com/ahmed7gendy/hr-edecs/internal/config"
	"github.com/ahmed7gendy/hr-edecs/internal/database"
	"github.com/ahmed7gendy/hr-edecs/internal/handlers"
	"github.com/ahmed7gendy/hr-edecs/internal/logger"
	"github.com/ahmed7gendy/hr-edecs/internal/middleware"
	"github.com/ahmed7gendy/hr-edecs/internal/services"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
)

func main() {
	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	cfg, err := config.LoadConfig(".env", log)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Open the store
	backend, client, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn("error disconnecting from MongoDB", zap.Error(err))
			}
		}()
	}
	cols := database.NewCollections(backend)

	// 3. Seed the catalog and first admin
	if _, err := database.Bootstrap(ctx, cols, database.AdminAccount{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, log); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	// 4. Initialize services
	activity := services.NewActivityLogger(cols.Activities, cfg.ActivityLogTimeout, log)
	defer activity.Wait()

	permissions := services.NewPermissionService(cols, log)
	relationships := services.NewRelationshipService(cols, activity, log)
	employees := services.NewEmployeeService(cols, relationships, activity, log)
	authService := services.NewAuthService(employees, permissions, []byte(cfg.JWTSecret), cfg.TokenTTL, log)

	var uploader services.Uploader
	if cfg.CloudinaryEnabled() {
		cld, err := services.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return err
		}
		uploader = cld
	} else {
		log.Warn("cloudinary not configured, document uploads disabled")
	}

	// 5. Initialize handlers
	h := api.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Employees:   handlers.NewEmployeeHandler(employees, relationships),
		Departments: handlers.NewDepartmentHandler(services.NewDepartmentService(cols, activity, log), relationships),
		Attendance:  handlers.NewAttendanceHandler(services.NewAttendanceService(cols, log)),
		Leaves:      handlers.NewLeaveHandler(services.NewLeaveService(cols, activity, log)),
		Payroll:     handlers.NewPayrollHandler(services.NewPayrollService(cols, activity, log)),
		Documents:   handlers.NewDocumentHandler(services.NewDocumentService(cols, uploader, activity, log)),
		Performance: handlers.NewPerformanceHandler(services.NewPerformanceService(cols, activity, log)),
		Recruitment: handlers.NewRecruitmentHandler(services.NewRecruitmentService(cols, activity, log)),
		Training:    handlers.NewTrainingHandler(services.NewTrainingService(cols, activity, log)),
		Projects:    handlers.NewProjectHandler(services.NewProjectService(cols, activity, log), relationships),
		Checklists:  handlers.NewChecklistHandler(services.NewChecklistService(cols, activity, log)),
		Dashboard:   handlers.NewDashboardHandler(services.NewReportService(cols, log), activity),
	}

	// 6. Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authService, log)
	httpMetrics, err := middleware.NewHTTPMetrics(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// 7. Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.Recover(log), middleware.AccessLog(log), httpMetrics.Handler)
	api.SetupRoutes(router, authMiddleware, h, api.MetricsHandler())

	// --- CORS: Allow All Origins ---
	handlerWithCORS := cors.AllowAll().Handler(router)

	// 8. Start HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlerWithCORS,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("store", backend.Driver()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Port, err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore picks the backend named by STORE_DRIVER. The client is nil for
// the memory backend.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Backend, *mongo.Client, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on exit")
		return store.NewMemoryBackend(), nil, nil
	case config.DriverMongo:
		client, err := database.ConnectMongoDB(ctx, cfg.MongoURI, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		db := client.Database(cfg.DBName)
		if err := database.EnsureIndexes(ctx, db, log); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return store.NewMongoBackend(db, cfg.StoreTimeout), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

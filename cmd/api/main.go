package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/config"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/employee"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/leave"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/workplace"
	appHTTP "github.com/Horattiu/RemediumFarm-sub000/internal/handler/http"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/cron"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/database"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/jwt"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/keylock"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/sse"
	"github.com/Horattiu/RemediumFarm-sub000/internal/repository/memory"
	"github.com/Horattiu/RemediumFarm-sub000/internal/repository/postgresql"
	attendanceService "github.com/Horattiu/RemediumFarm-sub000/internal/service/attendance"
	leaveService "github.com/Horattiu/RemediumFarm-sub000/internal/service/leave"
	reportService "github.com/Horattiu/RemediumFarm-sub000/internal/service/report"
)

type repositories struct {
	attendance attendance.AttendanceRepository
	leaves     leave.LeaveRequestRepository
	employees  employee.EmployeeRepository
	workplaces workplace.WorkplaceRepository
	close      func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := appHTTP.NewLogger(cfg.App.SlogLevel(), "remedium-attendance", cfg.App.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	loc := cfg.App.Location()
	locks := keylock.New()
	hub := sse.NewHub()

	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.leaves, repos.employees, repos.workplaces, locks, hub, loc)
	leaveSvc := leaveService.NewLeaveService(repos.leaves, repos.attendance, repos.employees, repos.workplaces, locks, hub, loc)
	reportSvc := reportService.NewReportService(repos.attendance, repos.employees, cfg.Report.DefaultMonthlyTargetHours, loc)

	scheduler := cron.NewScheduler()
	nameJobs := cron.NewNameJobs(repos.attendance, repos.leaves, repos.employees, repos.workplaces)
	nameJobs.RegisterJobs(scheduler, cfg.Cron.NameBackfillInterval)
	scheduler.Start()
	defer scheduler.Stop()

	var jwtService jwt.Service
	if cfg.JWT.Secret != "" {
		jwtService = jwt.NewJWTService(cfg.JWT.Secret)
	} else {
		slog.Warn("JWT_SECRET_KEY is empty, API authentication is disabled")
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         logger,
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			JWTService:     jwtService,
		},
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewEventsHandler(hub, jwtService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		if cfg.Storage.SeedFile != "" {
			if err := store.LoadSeedFile(cfg.Storage.SeedFile); err != nil {
				return repositories{}, err
			}
		} else {
			slog.Warn("Memory storage started without a directory seed, submissions will be rejected")
		}
		return repositories{
			attendance: store.Attendance(),
			leaves:     store.Leaves(),
			employees:  store.Employees(),
			workplaces: store.Workplaces(),
			close:      func() {},
		}, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return repositories{}, fmt.Errorf("error connecting to database: %w", err)
		}
		if err := db.Migrate(ctx, cfg.Database.MigrationsDir); err != nil {
			db.Close()
			return repositories{}, fmt.Errorf("error running migrations: %w", err)
		}
		return repositories{
			attendance: postgresql.NewAttendanceRepository(db),
			leaves:     postgresql.NewLeaveRequestRepository(db),
			employees:  postgresql.NewEmployeeRepository(db),
			workplaces: postgresql.NewWorkplaceRepository(db),
			close:      db.Close,
		}, nil
	}
}

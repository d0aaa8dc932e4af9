package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"presensi/internal/attendance"
	attendancehandler "presensi/internal/attendance/handler"
	"presensi/internal/attendance/metrics"
	"presensi/internal/audit"
	"presensi/internal/auth"
	authhandler "presensi/internal/auth/handler"
	"presensi/internal/face"
	facehandler "presensi/internal/face/handler"
	"presensi/internal/jwttoken"
	"presensi/internal/platform/clock"
	"presensi/internal/platform/config"
	"presensi/internal/platform/httpserver"
	"presensi/internal/platform/logger"
	"presensi/internal/platform/postgres"
	"presensi/internal/platform/redis"
	"presensi/internal/roster"
	rosterhandler "presensi/internal/roster/handler"
	httptransport "presensi/internal/transport/http"
	authmw "presensi/pkg/platform/middleware/auth"
)

const auditInboxSize = 256

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.NewFixedZone(cfg.Attendance.TimezoneName, cfg.Attendance.TimezoneOffsetMinutes)

	// Stores: Postgres when configured, in-memory otherwise (dev mode).
	var (
		userStore       auth.UserStore
		identityStore   face.IdentityStore
		shiftStore      roster.ShiftStore
		assignmentStore roster.AssignmentStore
		locationStore   roster.LocationStore
		recordStore     attendance.RecordStore
		auditStore      audit.Store
	)
	if cfg.Postgres.URL != "" {
		db, err := postgres.Open(cfg.Postgres)
		if err != nil {
			return err
		}
		defer db.Close()
		userStore = auth.NewPostgresStore(db)
		identityStore = face.NewPostgresStore(db, log)
		shiftStore = roster.NewPostgresShiftStore(db)
		assignmentStore = roster.NewPostgresAssignmentStore(db)
		locationStore = roster.NewPostgresLocationStore(db)
		recordStore = attendance.NewPostgresStore(db)
		auditStore = audit.NewPostgresStore(db)
		log.Info("storage: postgres")
	} else {
		userStore = auth.NewInMemoryStore()
		identityStore = face.NewInMemoryStore()
		shiftStore = roster.NewInMemoryShiftStore()
		assignmentStore = roster.NewInMemoryAssignmentStore()
		locationStore = roster.NewInMemoryLocationStore()
		recordStore = attendance.NewInMemoryStore()
		auditStore = audit.NewInMemoryStore()
		log.Warn("storage: in-memory, data is lost on restart")
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	var statusCache *attendance.StatusCache
	if redisClient != nil {
		defer redisClient.Close()
		statusCache = attendance.NewStatusCache(redisClient.Client, cfg.Redis.StatusTTL, log)
		log.Info("status cache: redis")
	}

	// Audit pipeline: handlers emit, the worker persists and optionally
	// mirrors to Kafka.
	inbox := make(chan audit.Event, auditInboxSize)
	auditor := audit.NewPublisher(inbox, log)
	var auditSink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		auditSink = kafkaSink
		log.Info("audit mirror: kafka", "topic", cfg.Kafka.Topic)
	}
	auditWorker := audit.NewWorker(auditStore, auditSink, inbox, log)

	// Services.
	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, "presensi", "presensi-api")
	jwtValidator := jwttoken.NewJWTServiceAdapter(jwtService)

	faceClient := face.NewClient(cfg.Face.URL, cfg.Face.Timeout, log)
	matcher := face.NewMatcher(cfg.Face.VerifyThreshold, cfg.Face.UniqueThreshold, log)
	faceService := face.NewService(identityStore, faceClient, matcher, auditor, cfg.Face.EmbeddingDim, log)

	authService := auth.NewService(userStore, jwtService, cfg.Server.TokenTTL, auditor, log)
	rosterService := roster.NewService(shiftStore, assignmentStore, locationStore, log)
	attendanceService := attendance.NewService(
		recordStore, locationStore, assignmentStore, shiftStore, identityStore,
		faceClient, matcher, statusCache, auditor, metrics.New(), log)

	seedAdmin(ctx, log, authService, cfg.Bootstrap)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Clock:        clk,
		JWTValidator: jwtValidator,
		Auth:         authhandler.New(authService, log),
		Attendance:   attendancehandler.New(attendanceService, log),
		Face:         facehandler.New(faceService, log),
		Roster:       rosterhandler.New(rosterService, log),
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting presensi", "addr", cfg.Server.Addr, "tz", cfg.Attendance.TimezoneName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

// seedAdmin creates the bootstrap admin account when configured. A conflict
// means the account already exists and is not an error.
func seedAdmin(ctx context.Context, log *slog.Logger, authService *auth.Service, cfg config.BootstrapConfig) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	user, err := authService.CreateUser(ctx, cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword, authmw.RoleAdmin)
	if err != nil {
		log.Info("bootstrap admin not created", "reason", err.Error())
		return
	}
	log.Info("bootstrap admin created", "user_id", user.ID, "email", cfg.AdminEmail)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/thereayou/barber-booking/internal/config"
	"github.com/thereayou/barber-booking/internal/database"
	"github.com/thereayou/barber-booking/internal/handlers"
	"github.com/thereayou/barber-booking/internal/middleware"
	"github.com/thereayou/barber-booking/internal/services"
	"github.com/thereayou/barber-booking/internal/websocket"
	"github.com/thereayou/barber-booking/pkg/auth"
	"github.com/thereayou/barber-booking/pkg/metrics"
	"github.com/thereayou/barber-booking/pkg/tracer"
)

type Server struct {
	Config     *config.Config
	Router     *gin.Engine
	DB         *database.Database
	Mongo      *mongo.Client
	Redis      *redis.Client
	Hub        *websocket.Hub
	JWTManager *auth.JWTManager
	Tracer     *sdktrace.TracerProvider
	Log        *zap.Logger

	limiter *middleware.RateLimiter
}

func NewServer(cfg *config.Config, log *zap.Logger) (*Server, error) {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.Database); err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := database.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	notificationStore := database.NewNotificationStore(mongoClient.Database(cfg.Mongo.Database))
	if err := notificationStore.EnsureIndexes(ctx); err != nil {
		log.Warn("could not create notification indexes", zap.Error(err))
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect failed: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector("barber_booking", registry)

	hub := websocket.NewHub(log.Named("websocket"))
	jwtMgr := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	blacklist := auth.NewRedisBlacklist(rdb)
	loc := cfg.App.Location()

	notificationSvc := services.NewNotificationService(
		notificationStore, hub, dbConn, log.Named("notifications"), cfg.App.Locale, loc,
	)
	appointmentSvc := services.NewAppointmentService(
		dbConn, dbConn, notificationSvc, collector, log.Named("appointments"), cfg.App.URL,
		services.WithLocation(loc),
	)
	authSvc := services.NewAuthService(dbConn, jwtMgr, blacklist, log.Named("auth"))

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log.Named("http")),
		middleware.Metrics(collector),
		cors.New(cors.Config{
			AllowOrigins:  cfg.CORS.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	APIEndpoints(router, routeHandlers{
		auth:          handlers.NewAuthHandler(authSvc),
		appointments:  handlers.NewAppointmentHandler(appointmentSvc),
		users:         handlers.NewUserHandler(dbConn, appointmentSvc),
		notifications: handlers.NewNotificationHandler(notificationSvc),
		websocket:     handlers.NewWebSocketHandler(hub, cfg.CORS.AllowedOrigins),
	},
		middleware.AuthMiddleware(jwtMgr, blacklist),
		middleware.WSAuthMiddleware(jwtMgr, blacklist),
		limiter,
		collector,
	)

	return &Server{
		Config:     cfg,
		Router:     router,
		DB:         dbConn,
		Mongo:      mongoClient,
		Redis:      rdb,
		Hub:        hub,
		JWTManager: jwtMgr,
		Tracer:     tp,
		Log:        log,
		limiter:    limiter,
	}, nil
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.Hub.Run()
	go s.sweepLimiter(ctx)

	srv := &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      s.Router,
		ReadTimeout:  s.Config.Server.ReadTimeout,
		WriteTimeout: s.Config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Log.Info("server starting", zap.String("port", s.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
	defer cancel()

	s.Hub.Stop()
	err := srv.Shutdown(shutdownCtx)
	s.close(shutdownCtx)
	return err
}

func (s *Server) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.limiter.Cleanup(3 * time.Minute)
		}
	}
}

func (s *Server) close(ctx context.Context) {
	if err := s.Mongo.Disconnect(ctx); err != nil {
		s.Log.Warn("mongo disconnect", zap.Error(err))
	}
	if err := s.Redis.Close(); err != nil {
		s.Log.Warn("redis close", zap.Error(err))
	}
	if err := s.DB.Close(); err != nil {
		s.Log.Warn("postgres close", zap.Error(err))
	}
	if err := s.Tracer.Shutdown(ctx); err != nil {
		s.Log.Warn("tracer shutdown", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"venture-chat/internal/auth"
	"venture-chat/internal/config"
	"venture-chat/internal/db"
	"venture-chat/internal/handlers"
	"venture-chat/internal/logging"
	"venture-chat/internal/middleware"
	"venture-chat/internal/observability"
	"venture-chat/internal/rabbitmq"
	"venture-chat/internal/repositories"
	"venture-chat/internal/services"
	"venture-chat/internal/telemetry"
	"venture-chat/internal/ws"
)

func main() {
	if err := run(); err != nil {
		logging.NewJSON(os.Stderr, "error").Error(context.Background(), "fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.NewJSON(os.Stdout, cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.ServiceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn(context.Background(), "tracer shutdown", "error", err)
		}
	}()

	database, err := db.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)
	defer publisher.Close()
	log.Info(ctx, "event publisher ready", "mode", rabbitmq.PublisherMode(publisher), "noop_reason", rabbitmq.PublisherNoopReason(publisher))
	auditEmitter := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, cfg.ServiceName, cfg.Environment, log)

	userRepo := repositories.NewUserRepo(database)
	blockRepo := repositories.NewBlockRepo(database)
	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)
	friendRepo := repositories.NewFriendRequestRepo(database)

	identity := services.NewIdentityResolver(userRepo)
	blocks := services.NewBlockRegistry(blockRepo, userRepo, publisher, log)
	directory := services.NewConversationDirectory(conversationRepo, publisher, log)
	messages := services.NewMessageService(messageRepo, userRepo, directory, blocks, publisher, log)
	notifier := services.NewNotifier(notificationRepo, publisher, log)
	friends := services.NewFriendService(friendRepo, userRepo, blocks, notifier, publisher, log)

	hub := ws.NewHub(publisher, log)
	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)

	messageHandler := handlers.NewMessageHandler(messages, directory, hub)
	blockHandler := handlers.NewBlockHandler(blocks, auditEmitter)
	userHandler := handlers.NewUserHandler(identity)
	friendHandler := handlers.NewFriendHandler(friends)
	notificationHandler := handlers.NewNotificationHandler(notifier)
	conversationWS := ws.NewConversationWebSocketHandler(hub, verifier, identity, directory)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.RequestID())
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", healthz(database))

	authMiddleware := middleware.AuthMiddleware(verifier, identity, log)

	router.POST("/messages", authMiddleware, messageHandler.SendMessage)
	router.GET("/messages", authMiddleware, messageHandler.ListMessages)
	router.GET("/messages/chats", authMiddleware, messageHandler.ListChats)
	router.GET("/messages/conversation/:id", authMiddleware, messageHandler.ListConversationMessages)
	router.POST("/messages/conversation/:id/read", authMiddleware, messageHandler.MarkConversationRead)
	router.POST("/messages/:id/status", authMiddleware, messageHandler.UpdateStatus)

	router.POST("/block", authMiddleware, blockHandler.Block)
	router.DELETE("/block", authMiddleware, blockHandler.Unblock)
	router.GET("/block", authMiddleware, blockHandler.ListBlocked)

	router.GET("/users/me", authMiddleware, userHandler.Me)

	router.GET("/friend-requests", authMiddleware, friendHandler.List)
	router.POST("/friend-requests", authMiddleware, friendHandler.Send)
	router.POST("/friend-requests/:id/accept", authMiddleware, friendHandler.Accept)
	router.POST("/friend-requests/:id/reject", authMiddleware, friendHandler.Reject)
	router.DELETE("/friend-requests/:id", authMiddleware, friendHandler.Delete)

	router.GET("/notifications", authMiddleware, notificationHandler.List)
	router.POST("/notifications/read-all", authMiddleware, notificationHandler.MarkAllRead)
	router.POST("/notifications/:id/read", authMiddleware, notificationHandler.MarkRead)

	router.GET("/ws/conversations/:conversation_id", conversationWS.Handle)

	handlers.RegisterDebugRoutes(router, auditEmitter, cfg.DebugRoutes)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "http server listening", "addr", cfg.HTTPAddr)
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

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func healthz(database *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

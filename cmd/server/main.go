package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"session-authz/internal/authz/handler"
	authzservice "session-authz/internal/authz/service"
	bootstrapkeyrepo "session-authz/internal/bootstrapkey/repository"
	"session-authz/internal/config"
	"session-authz/internal/db"
	hierarchyrepo "session-authz/internal/hierarchy/repository"
	hierarchyservice "session-authz/internal/hierarchy/service"
	"session-authz/internal/retry"
	"session-authz/internal/security"
	"session-authz/internal/server"
	sessionrepo "session-authz/internal/session/repository"
	"session-authz/internal/telemetry"
	"session-authz/internal/telemetry/otel"
	userrepo "session-authz/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := db.Open(cfg.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	providers, err := otel.Setup(ctx, otel.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: "session-authz",
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	keys := security.NewKeyProvider(cfg.JWTPublicKey, bootstrapkeyrepo.NewPostgresRepository(conn))
	sessions := sessionrepo.NewPostgresRepository(conn)
	resolver := hierarchyservice.NewResolver(
		userrepo.NewPostgresRepository(conn),
		hierarchyrepo.NewPostgresRepository(conn),
	)
	authz := authzservice.NewAuthorizationService(
		keys,
		sessions,
		resolver,
		cfg.SessionWindow(),
		retry.New(cfg.DBConnRetry, cfg.RetryDelay()),
	)

	router := server.NewRouter(server.Deps{
		Authz:        handler.New(authz, otel.NewEventEmitter(providers.LoggerProvider)),
		HealthPinger: conn,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Let in-flight async telemetry emits finish before tearing down exporters.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}

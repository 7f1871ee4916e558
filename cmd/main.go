package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	discordclient "modmail/clients/discord"
	"modmail/config"
	"modmail/db"
	"modmail/handlers"
	"modmail/i18n"
	"modmail/opsnotif"
	"modmail/services/alerts"
	"modmail/services/guildsettings"
	"modmail/services/snippets"
	"modmail/services/threads"
	"modmail/services/txmanager"
	"modmail/usecases/modmail"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize ops notifications
	opsnotif.Init(cfg.OpsConfig.WebhookURL, cfg.Environment)

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	threadsRepo := db.NewPostgresThreadsRepository(dbConn, cfg.DatabaseSchema)
	guildSettingsRepo := db.NewPostgresGuildSettingsRepository(dbConn, cfg.DatabaseSchema)
	snippetsRepo := db.NewPostgresSnippetsRepository(dbConn, cfg.DatabaseSchema)
	alertsRepo := db.NewPostgresAlertsRepository(dbConn, cfg.DatabaseSchema)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	threadsService := threads.NewThreadsService(threadsRepo, txManager)
	guildSettingsService := guildsettings.NewGuildSettingsService(guildSettingsRepo)
	snippetsService := snippets.NewSnippetsService(snippetsRepo)
	alertsService := alerts.NewAlertsService(alertsRepo)

	// Initialize the Discord session shared by the gateway and event handler
	session, err := discordgo.New("Bot " + cfg.DiscordConfig.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	gateway := discordclient.NewDiscordGateway(session)

	translator := i18n.NewCatalogTranslator()
	tagSelector := modmail.NewTagSelector(gateway, translator)
	deflector := modmail.NewDeflector(snippetsService, gateway, translator, cfg.DiscordConfig.LogChannelID)
	threadOpener := modmail.NewThreadOpenerUseCase(
		gateway,
		threadsService,
		guildSettingsService,
		alertsService,
		translator,
		tagSelector,
		deflector,
	)

	eventsHandler := handlers.NewDiscordEventsHandler(
		session,
		gateway,
		threadOpener,
		threadsService,
		snippetsService,
		alertsService,
		guildSettingsService,
		translator,
		cfg.DiscordConfig.GuildID,
	)
	apiHandler := handlers.NewAPIHandler(threadsService, snippetsService, guildSettingsService)

	if err := eventsHandler.StartBot(); err != nil {
		return err
	}
	defer eventsHandler.StopBot()

	// Create a new router
	router := mux.NewRouter()
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiHandler.SetupEndpoints(apiRouter)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}

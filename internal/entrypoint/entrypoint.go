// Package entrypoint wires the application together and runs the HTTP
// server.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/readease/readease/internal/auth"
	"github.com/readease/readease/internal/catalog"
	"github.com/readease/readease/internal/config"
	"github.com/readease/readease/internal/docstore"
	controllers "github.com/readease/readease/internal/http"
	"github.com/readease/readease/internal/library"
	"github.com/readease/readease/internal/search"
	"github.com/readease/readease/internal/session"
)

// Serve runs handler until SIGINT/SIGTERM, then shuts down gracefully.
func Serve(handler http.Handler, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: handler,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutting down, waiting up to %v", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the full application from configuration and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting ReadEase v%s", version)

	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Could not open database %s: %v", cfg.Database.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not access underlying database: %v", err)
	}

	books, err := docstore.NewSQLite(db)
	if err != nil {
		log.Fatalf("Could not initialize document store: %v", err)
	}

	authService, err := auth.NewService(db, cfg.Auth)
	if err != nil {
		log.Fatalf("Could not initialize identity provider: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Could not initialize session manager: %v", err)
	}

	current := session.NewContext()
	libraryStore := library.New(books, current)
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL)
	searchSession := search.NewSession(catalogClient, cfg.Catalog.PageSize)

	router := gin.Default()

	authController := auth.NewController(authService, sessionManager, current)
	authController.RegisterRoutes(router)

	healthController := controllers.NewHealthController(db, version)
	router.GET("/health", healthController.Status)

	libraryController := controllers.NewLibraryController(libraryStore, books)
	searchController := controllers.NewSearchController(searchSession, cfg.Catalog.DefaultQuery)

	api := router.Group("/api", sessionManager.RequireAuth())
	{
		api.GET("/search", searchController.Search)
		api.GET("/library", libraryController.Shelves)
		api.GET("/library/:id", libraryController.GetBook)
		api.POST("/library", libraryController.AddBook)
		api.PATCH("/library/:id", libraryController.UpdateBook)
		api.DELETE("/library/:id", libraryController.DeleteBook)
		api.GET("/stats", libraryController.Stats)
	}

	// scs wraps the whole engine so session state is loaded for every
	// request, including the auth endpoints themselves.
	Serve(sessionManager.LoadAndSave(router), cfg)
}

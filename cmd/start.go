/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/handler"
	"github.com/tieubaoca/docqa-be/middleware"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document query server",
	Long:  `Starts a server that answers questions about remote documents`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if cfg.APIToken == "" {
			log.Fatal("API_TOKEN is not configured")
		}

		engine, err := newQueryEngine(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to build query engine: %v", err)
		}

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		queryHandler := handler.NewQueryHandler(engine)
		healthHandler := handler.NewHealthHandler()
		authMiddleware := middleware.NewAuthMiddleware(cfg.APIToken)

		// Setup routes
		mux := http.NewServeMux()
		mux.Handle("/", healthHandler.HandleHealth())
		mux.Handle("/api/v1/query/run", authMiddleware(queryHandler.HandleQuery()))

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := http.ListenAndServe(":"+cfg.Port, corsHandler.CorsMiddleware(mux)); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}

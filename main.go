package main

import (
	"context"
	"embed"
	"log"
	"net/http"
	_ "net/http/pprof"
	"path/filepath"
	"time"

	"edadash/adapters/excel"
	"edadash/adapters/llm"
	"edadash/assets"
	"edadash/domain/table"
	"edadash/internal"
	"edadash/internal/config"
	"edadash/internal/dashboard"
	"edadash/internal/session"
	"edadash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed ui/templates/*.html ui/templates/partials/*.html ui/static
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	chatClient, err := llm.NewOpenAIClient(llm.Config{
		Model:   appConfig.LLM.Model,
		BaseURL: appConfig.LLM.BaseURL,
		Timeout: appConfig.LLM.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to create chat client: %v", err)
	}

	store := session.NewStore()
	go store.RunJanitor(context.Background(), time.Minute, appConfig.Session.TTL)

	svc := dashboard.NewService(chatClient, exampleLoader(appConfig.Data.ExampleDataset), internal.DefaultLogger)

	server, err := ui.NewServer(embeddedFiles, store, svc, appConfig.Data.MaxUploadMB)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("[pprof] Profiling server starting on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("[pprof] Server failed: %v", err)
			}
		}()
	}

	log.Printf("[Server] Chat model %s at %s", appConfig.LLM.Model, appConfig.LLM.BaseURL)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}

// exampleLoader serves the dataset at path when one is configured, the
// embedded MWD survey otherwise.
func exampleLoader(path string) dashboard.ExampleLoader {
	if path == "" {
		return func() (*table.Table, string, error) {
			tbl, err := assets.ExampleDataset()
			return tbl, assets.ExampleDatasetName, err
		}
	}
	return func() (*table.Table, string, error) {
		tbl, err := excel.LoadFile(path)
		return tbl, filepath.Base(path), err
	}
}

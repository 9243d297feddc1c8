package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"fileexplorer/internal/config"
	"fileexplorer/internal/database"
	"fileexplorer/internal/domain/file"
	"fileexplorer/internal/extract"
	"fileexplorer/internal/middleware"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&file.FileRecord{}, &file.ExtractedText{}); err != nil {
		log.Fatal(err)
	}

	// OCR availability is decided here, once; every image uploaded while
	// tesseract is missing gets the fixed unavailability text.
	ocr := extract.NewOCR(cfg.OCRLanguages)
	if ocr.Available() {
		log.Printf("ocr enabled languages=%s", ocr.Languages)
	}
	registry := extract.NewRegistry(ocr, cfg.MaxConcurrentExtractions)

	repo := file.NewRepository(db)
	service := file.NewService(repo, registry, cfg.UploadDir)
	handler := file.NewHandler(service)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "File Explorer API", "version": version})
	})
	if cfg.StaticDir != "" {
		r.Static("/app", cfg.StaticDir)
	}

	v1 := r.Group("/api/v1")
	{
		file.RegisterRoutes(v1, handler)
	}

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

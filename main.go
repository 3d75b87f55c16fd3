package main

import (
	"context"
	"director-watch/config"
	"director-watch/india"
	"director-watch/models"
	"director-watch/providers"
	"director-watch/providers/bingnews"
	"director-watch/providers/gdelt"
	"director-watch/providers/googlenews"
	"director-watch/providers/newsdata"
	"director-watch/providers/serpapi"
	"director-watch/services"
	"director-watch/storage"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	if err := db.AutoMigrate(
		&models.Subject{},
		&models.Article{},
		&models.ExtractedContent{},
		&models.Mention{},
		&models.Report{},
	); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	// Setup Providers
	var enabledProviders []providers.Provider
	for _, name := range cfg.EnabledProviderNames() {
		switch name {
		case "gdelt":
			enabledProviders = append(enabledProviders, gdelt.NewFetcher(cfg, logging))
		case "bingnews":
			enabledProviders = append(enabledProviders, bingnews.NewFetcher(cfg, logging))
		case "newsdata":
			enabledProviders = append(enabledProviders, newsdata.NewFetcher(cfg, logging))
		case "serpapi":
			enabledProviders = append(enabledProviders, serpapi.NewFetcher(cfg, logging))
		case "googlenews":
			enabledProviders = append(enabledProviders, googlenews.NewFetcher(cfg, logging))
		default:
			logging.Warn("Unknown provider in config", zap.String("provider_name", name))
		}
	}
	if len(enabledProviders) == 0 {
		logging.Fatal("No valid providers enabled. Check ENABLED_PROVIDERS in .env")
	}
	logging.Info("Active providers loaded", zap.Strings("providers", cfg.EnabledProviderNames()))

	// Setup Services
	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}
	monitorService := services.NewMonitorService(cfg, db, logging, enabledProviders)
	reportService := services.NewReportService(cfg, db, s3Client, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Setup Routes
	setupSubjectRoutes(router, db, cfg, logging)
	setupMonitorRoutes(router, monitorService, logging)
	setupMentionRoutes(router, db, logging)
	setupReportRoutes(router, reportService, db, logging)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.MonitorCronSchedule, func() {
		logging.Info("Running scheduled monitoring job...")
		count, err := monitorService.RunAllSubjects(context.Background())
		if err != nil {
			logging.Error("Monitoring cron job failed", zap.Error(err))
		} else {
			logging.Info("Monitoring cron job completed", zap.Int("new_mentions", count))
		}
	})
	cronScheduler.AddFunc(cfg.ReportCronSchedule, func() {
		logging.Info("Running scheduled report job...")
		if _, err := reportService.Generate(context.Background(), time.Now().UTC()); err != nil {
			logging.Error("Report cron job failed", zap.Error(err))
		}
	})
	cronScheduler.AddFunc(cfg.CleanupCronSchedule, func() {
		logging.Info("Running scheduled retention cleanup...")
		if err := reportService.CleanupRetention(); err != nil {
			logging.Error("Cleanup cron job failed", zap.Error(err))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupSubjectRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/subjects")
	rg.POST("/", func(c *gin.Context) {
		var sub models.Subject
		if err := c.ShouldBindJSON(&sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if sub.FullName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "full_name is required"})
			return
		}
		// Leeres Kontextprofil wird aus dem Länderprofil vorbelegt.
		profile := sub.ContextProfile.Data()
		if cfg.CountryProfile == "IN" && len(profile.RegulatoryTerms) == 0 && len(profile.LegalTerms) == 0 {
			profile.RegulatoryTerms, profile.LegalTerms, profile.HindiLegalTerms = india.DefaultContextTerms()
			sub.ContextProfile = datatypes.NewJSONType(profile)
		}
		if err := db.Create(&sub).Error; err != nil {
			log.Error("Failed to create subject", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subject"})
			return
		}
		c.JSON(http.StatusCreated, sub)
	})
	rg.GET("/", func(c *gin.Context) {
		var subs []models.Subject
		if err := db.Find(&subs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, subs)
	})
	rg.PATCH("/:id/active", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
			return
		}
		var body struct {
			Active *bool `json:"active"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Active == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "active is required"})
			return
		}
		res := db.Model(&models.Subject{}).Where("id = ?", id).Update("is_active", *body.Active)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *body.Active})
	})
}

func setupMonitorRoutes(router *gin.Engine, monitor *services.MonitorService, log *zap.Logger) {
	rg := router.Group("/monitor")

	// Kompletter Lauf, asynchron; der Aufrufer bekommt sofort 202.
	rg.POST("/run", func(c *gin.Context) {
		go func() {
			count, err := monitor.RunAllSubjects(context.Background())
			if err != nil {
				log.Error("Manual monitoring run failed", zap.Error(err))
				return
			}
			log.Info("Manual monitoring run completed", zap.Int("new_mentions", count))
		}()
		c.JSON(http.StatusAccepted, gin.H{"status": "monitoring run started"})
	})

	rg.POST("/subject/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
			return
		}
		go func() {
			count, err := monitor.RunSubjectByID(context.Background(), uint(id))
			if err != nil {
				log.Error("Manual subject run failed", zap.Uint64("subject_id", id), zap.Error(err))
				return
			}
			log.Info("Manual subject run completed", zap.Uint64("subject_id", id), zap.Int("new_mentions", count))
		}()
		c.JSON(http.StatusAccepted, gin.H{"status": "subject run started"})
	})
}

func setupMentionRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/mentions")

	rg.GET("/", func(c *gin.Context) {
		query := db.Model(&models.Mention{})

		if subjectID := c.Query("subject_id"); subjectID != "" {
			query = query.Where("subject_id = ?", subjectID)
		}
		if severity := c.Query("severity"); severity != "" {
			query = query.Where("severity = ?", models.ParseSeverity(severity))
		}
		if sentiment := c.Query("sentiment"); sentiment != "" {
			query = query.Where("sentiment = ?", models.ParseSentiment(sentiment))
		}
		if since := c.Query("since"); since != "" {
			t, err := time.Parse("2006-01-02", since)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since date, use YYYY-MM-DD"})
				return
			}
			query = query.Where("created_at > ?", t)
		}
		limit := 100
		if raw := c.Query("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
				limit = parsed
			}
		}

		var mentions []models.Mention
		if err := query.Order("created_at desc").Limit(limit).Find(&mentions).Error; err != nil {
			log.Error("Database query for mentions failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, mentions)
	})

	// Review-Aktion: bestätigt oder verwirft eine Mention.
	rg.PATCH("/:id/review", func(c *gin.Context) {
		var mention models.Mention
		if err := db.First(&mention, c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "mention not found"})
				return
			}
			log.Error("DB error loading mention for review", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		var req struct {
			Confirmed *bool `json:"confirmed" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "body must contain 'confirmed'"})
			return
		}

		if err := db.Model(&mention).Updates(map[string]interface{}{
			"is_reviewed":  true,
			"is_confirmed": *req.Confirmed,
		}).Error; err != nil {
			log.Error("DB error updating mention review", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update mention"})
			return
		}
		c.JSON(http.StatusOK, mention)
	})
}

func setupReportRoutes(router *gin.Engine, reports *services.ReportService, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/reports")

	rg.POST("/generate", func(c *gin.Context) {
		var req struct {
			Date string `json:"date"`
		}
		_ = c.ShouldBindJSON(&req)

		date := time.Now().UTC()
		if req.Date != "" {
			parsed, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
				return
			}
			date = parsed
		}

		report, err := reports.Generate(c.Request.Context(), date)
		if err != nil {
			log.Error("Report generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
			return
		}
		c.JSON(http.StatusOK, report)
	})

	rg.GET("/:date", func(c *gin.Context) {
		date, err := time.Parse("2006-01-02", c.Param("date"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
			return
		}

		var report models.Report
		if err := db.Where("report_date = ?", date).First(&report).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no report for this date"})
				return
			}
			log.Error("DB error loading report", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, report)
	})
}

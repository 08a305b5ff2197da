package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Skufu/vitalrisk/internal/assessment"
	"github.com/Skufu/vitalrisk/internal/metrics"
)

//go:embed templates/*.html
var templatesFS embed.FS

const requestIDHeader = "X-Request-ID"

type formView struct {
	Metrics    metrics.Metrics
	Assessment *assessment.Assessment
	Error      string
}

type bmiRequest struct {
	Weight float64 `json:"weight" binding:"required,gt=0"`
	Height float64 `json:"height" binding:"required,gt=0"`
}

func setupRouter(db HealthChecker, svc *assessment.Service, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(
		requestID(),
		accessLog(),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(corsConfig(allowedOrigins)),
	)
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")))

	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", formView{})
	})

	router.POST("/", func(c *gin.Context) {
		var m metrics.Metrics
		if err := c.ShouldBind(&m); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.HTML(http.StatusRequestEntityTooLarge, "index.html", formView{Error: "The submitted form is too large."})
				return
			}
			c.HTML(http.StatusBadRequest, "index.html", formView{Metrics: m, Error: "Please enter numbers in every field."})
			return
		}

		a, err := svc.Assess(c.Request.Context(), m)
		if err != nil {
			c.HTML(http.StatusUnprocessableEntity, "index.html", formView{Metrics: m, Error: validationMessage(err)})
			return
		}

		c.HTML(http.StatusOK, "index.html", formView{Metrics: a.Metrics, Assessment: &a})
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	})

	api := router.Group("/api")

	api.POST("/bmi", func(c *gin.Context) {
		var req bmiRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "message": "weight and height are required"})
			return
		}

		bmi := metrics.ComputeBMI(req.Weight, req.Height)
		c.JSON(http.StatusOK, gin.H{"bmi": bmi, "category": metrics.BMICategory(bmi)})
	})

	api.POST("/predict", func(c *gin.Context) {
		var m metrics.Metrics
		if err := c.ShouldBindJSON(&m); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		a, err := svc.Assess(c.Request.Context(), m)
		if err != nil {
			var fe *metrics.FieldError
			field := ""
			if errors.As(err, &fe) {
				field = fe.Field
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation_failed",
				"field":   field,
				"message": validationMessage(err),
			})
			return
		}

		c.JSON(http.StatusOK, a)
	})

	return router
}

var fieldLabels = map[string]string{
	"glucose":   "glucose",
	"systolic":  "systolic blood pressure",
	"diastolic": "diastolic blood pressure",
	"weight":    "weight",
	"height":    "height",
}

func validationMessage(err error) string {
	var fe *metrics.FieldError
	if !errors.As(err, &fe) {
		return "Please check the values you entered."
	}
	label := fieldLabels[fe.Field]
	if label == "" {
		label = fe.Field
	}
	switch {
	case errors.Is(err, metrics.ErrNegativeValue):
		return fmt.Sprintf("Please enter a non-negative %s.", label)
	case errors.Is(err, metrics.ErrNotFinite):
		return fmt.Sprintf("Please enter a valid number for %s.", label)
	case errors.Is(err, metrics.ErrInvalidHeight):
		return "Please check your weight and height."
	}
	return fmt.Sprintf("Please enter your %s.", label)
}

var templateFuncs = template.FuncMap{
	"value": func(v float64) string {
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	"tone": func(a *assessment.Assessment) string {
		switch {
		case a.Failed():
			return "unavailable"
		case a.Prediction.Prediction == 1:
			return "warning"
		default:
			return "normal"
		}
	},
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", requestIDHeader},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

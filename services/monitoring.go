package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	SERVICE_NAME            = "trilha_api"
	DEFAULT_PROMETHEUS_PORT = 2112
)

// HTTP Metrics
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Engine Metrics
var (
	eventsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_events_processed_total",
			Help: "Total domain events evaluated by the achievement engine",
		},
		[]string{"event_type"},
	)

	eventEvaluationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamification_event_evaluation_seconds",
			Help:    "Achievement evaluation latency per event",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"event_type"},
	)

	achievementsUnlockedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_achievements_unlocked_total",
			Help: "Total achievement unlocks",
		},
		[]string{"category"},
	)

	missionsCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_missions_completed_total",
			Help: "Total mission completions",
		},
		[]string{"mission_type"},
	)

	streaksContinuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gamification_streaks_continued_total",
			Help: "Streak updates that extended an existing streak",
		},
	)

	streaksStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gamification_streaks_started_total",
			Help: "Streak updates that started or restarted a streak",
		},
	)

	streaksBrokenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gamification_streaks_broken_total",
			Help: "Streaks broken by the day-boundary sweep",
		},
	)
)

// MonitoringService serves prometheus metrics on its own port so the
// scrape surface never shares the API listener.
type MonitoringService struct {
	context.DefaultService

	port     int
	register *prometheus.Registry

	server *fiber.App
}

func (svc MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Start() error {
	portStr := os.Getenv("PROMETHEUS_PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = DEFAULT_PROMETHEUS_PORT
	}
	svc.port = port

	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reg.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		eventsProcessedTotal,
		eventEvaluationSeconds,
		achievementsUnlockedTotal,
		missionsCompletedTotal,
		streaksContinuedTotal,
		streaksStartedTotal,
		streaksBrokenTotal,
	)

	svc.register = reg

	svc.server = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		},
	})
	svc.server.Use(recover.New())

	svc.server.Get("/metrics", svc.metricsHandler)
	svc.server.Get("/health", svc.healthHandler)

	go func() {
		if err := svc.server.Listen(fmt.Sprintf(":%v", svc.port)); err != nil {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()

	log.WithField("port", svc.port).Info("Prometheus metrics server started")
	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *MonitoringService) metricsHandler(c *fiber.Ctx) error {
	handler := promhttp.HandlerFor(svc.register, promhttp.HandlerOpts{})
	return adaptor.HTTPHandler(handler)(c)
}

func (svc *MonitoringService) healthHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"service":   SERVICE_NAME,
		"timestamp": time.Now().Unix(),
	})
}

func (svc *MonitoringService) RecordEventProcessed(eventType string, duration time.Duration) {
	eventsProcessedTotal.WithLabelValues(eventType).Inc()
	eventEvaluationSeconds.WithLabelValues(eventType).Observe(duration.Seconds())
}

func (svc *MonitoringService) RecordAchievementUnlocked(category string) {
	if category == "" {
		category = "uncategorized"
	}
	achievementsUnlockedTotal.WithLabelValues(category).Inc()
}

func (svc *MonitoringService) RecordMissionCompleted(missionType string) {
	missionsCompletedTotal.WithLabelValues(missionType).Inc()
}

func (svc *MonitoringService) RecordStreakUpdate(continued bool) {
	if continued {
		streaksContinuedTotal.Inc()
	} else {
		streaksStartedTotal.Inc()
	}
}

func (svc *MonitoringService) RecordStreakBroken() {
	streaksBrokenTotal.Inc()
}

// MonitoringMiddleware records request metrics for the API listener.
func MonitoringMiddleware(monitoringSvc *MonitoringService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		method := c.Method()

		err := c.Next()

		endpoint := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		httpRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
		httpRequestDurationSeconds.WithLabelValues(endpoint, method, status).Observe(time.Since(start).Seconds())

		return err
	}
}

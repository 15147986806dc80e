package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler serves the liveness and dependency health probes.
type HealthHandler struct {
	db      *mongo.Database
	rdb     *redis.Client
	env     string
	started time.Time
}

func NewHealthHandler(db *mongo.Database, rdb *redis.Client, env string) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, env: env, started: time.Now()}
}

type healthResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

type databaseStatus struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

type dbHealthResponse struct {
	Success   bool           `json:"success"`
	Database  databaseStatus `json:"database"`
	Timestamp string         `json:"timestamp"`
}

type memoryStats struct {
	AllocMB      float64 `json:"allocMB"`
	TotalAllocMB float64 `json:"totalAllocMB"`
	SysMB        float64 `json:"sysMB"`
	NumGC        uint32  `json:"numGC"`
}

type serverStatus struct {
	Uptime      float64     `json:"uptime"`
	Environment string      `json:"environment"`
	GoVersion   string      `json:"goVersion"`
	Platform    string      `json:"platform"`
	Goroutines  int         `json:"goroutines"`
	Memory      memoryStats `json:"memory"`
}

type detailedHealthResponse struct {
	Success   bool           `json:"success"`
	Server    serverStatus   `json:"server"`
	Database  databaseStatus `json:"database"`
	Redis     databaseStatus `json:"redis"`
	Timestamp string         `json:"timestamp"`
}

// Liveness reports that the process is up.
//
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Router       /api/health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Success:     true,
		Message:     "Server is running",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Uptime:      time.Since(h.started).Seconds(),
		Environment: h.env,
	})
}

// Database reports MongoDB connectivity.
//
// @Summary      Database health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dbHealthResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/health/db [get]
func (h *HealthHandler) Database(c echo.Context) error {
	return c.JSON(http.StatusOK, dbHealthResponse{
		Success:   true,
		Database:  h.mongoStatus(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Detailed reports process stats plus every dependency's connectivity.
//
// @Summary      Detailed health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  detailedHealthResponse
// @Router       /api/health/detailed [get]
func (h *HealthHandler) Detailed(c echo.Context) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	const mb = 1024 * 1024

	return c.JSON(http.StatusOK, detailedHealthResponse{
		Success: true,
		Server: serverStatus{
			Uptime:      time.Since(h.started).Seconds(),
			Environment: h.env,
			GoVersion:   runtime.Version(),
			Platform:    runtime.GOOS,
			Goroutines:  runtime.NumGoroutine(),
			Memory: memoryStats{
				AllocMB:      float64(mem.Alloc) / mb,
				TotalAllocMB: float64(mem.TotalAlloc) / mb,
				SysMB:        float64(mem.Sys) / mb,
				NumGC:        mem.NumGC,
			},
		},
		Database:  h.mongoStatus(c),
		Redis:     h.redisStatus(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) mongoStatus(c echo.Context) databaseStatus {
	status := databaseStatus{Status: "connected", Name: h.db.Name()}
	if err := h.db.Client().Ping(c.Request().Context(), nil); err != nil {
		status.Status = "disconnected"
	}
	return status
}

func (h *HealthHandler) redisStatus(c echo.Context) databaseStatus {
	status := databaseStatus{Status: "connected", Name: "redis"}
	if err := h.rdb.Ping(c.Request().Context()).Err(); err != nil {
		status.Status = "disconnected"
	}
	return status
}

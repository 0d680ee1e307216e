package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthResponse reports process liveness and the reachability of the
// document store backing it.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *gorm.DB
	version string
}

func NewHealthController(db *gorm.DB, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Status answers GET /health. The document store is the only dependency
// worth probing: sessions, users and books all live in the same file.
func (h *HealthController) Status(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	checks := map[string]string{"document_store": "ok"}

	if err := h.pingStore(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
		checks["document_store"] = "error: " + err.Error()
	}

	c.JSON(code, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

func (h *HealthController) pingStore() error {
	if h.db == nil {
		return errors.New("not configured")
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

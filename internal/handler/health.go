package handler

import (
	"net/http"

	"bbwaitlist/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client // nil when not configured
	hub   *ws.Hub
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, hub *ws.Hub) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb, hub: hub}
}

func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	out := gin.H{"status": "ok"}

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = http.StatusServiceUnavailable
		out["status"] = "degraded"
		out["database"] = "down"
	} else {
		out["database"] = "up"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			out["redis"] = "down"
		} else {
			out["redis"] = "up"
		}
	}

	if h.hub != nil {
		out["feed_clients"] = h.hub.ClientCount()
	}

	c.JSON(status, out)
}

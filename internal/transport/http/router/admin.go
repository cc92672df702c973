package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"energy-trading-api/internal/core/auth"
	"energy-trading-api/internal/core/server"
	mdw "energy-trading-api/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer) *gin.Engine {
	r := server.NewBaseEngine(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(50, 100),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 管理端 v1，统一要求 admin 角色
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, "admin"))

	MountAllAdmin(admin)
	MountAdminActions(admin, db)

	return r
}

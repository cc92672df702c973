package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"energy-trading-api/internal/core/auth"
	"energy-trading-api/internal/service"
	mdw "energy-trading-api/internal/transport/http/middleware"
)

func NewAPIEngine(
	l *zap.Logger,
	db *gorm.DB,
	jwter *auth.JWTer,
	accounts *service.AccountService,
	ledger *service.LedgerService,
) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// 鉴权分组
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(jwter, ""))

	// 注册/登录/用户侧账本接口
	mountAccountActions(api, authUser, db, jwter, accounts, ledger, l)

	// 已注册的模块（offers 等）统一挂到鉴权分组
	MountAllAPI(authUser)

	return r
}

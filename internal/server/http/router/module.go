package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(Setup),
	fx.Invoke(logRoutes),
)

func logRoutes(engine *gin.Engine, logger *zap.Logger) {
	for _, r := range engine.Routes() {
		logger.Debug("route registered", zap.String("method", r.Method), zap.String("path", r.Path))
	}
}

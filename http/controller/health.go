package controller

import (
	"github.com/bqtran/filevault/utils"
	"github.com/gin-gonic/gin"
)

func (ctrl *Controller) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	status := gin.H{
		"postgres": "ok",
		"redis":    "ok",
		"minio":    "ok",
	}
	healthy := true

	sqlDB, err := ctrl.Infra.Postgres.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Health] Postgres check failed: %v", err)
		status["postgres"] = "unavailable"
		healthy = false
	}

	if err := ctrl.Infra.Redis.Client.Ping(ctx).Err(); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Health] Redis check failed: %v", err)
		status["redis"] = "unavailable"
		healthy = false
	}

	if err := ctrl.Infra.Minio.ServerHealthy(ctx); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Health] MinIO check failed: %v", err)
		status["minio"] = "unavailable"
		healthy = false
	}

	if !healthy {
		utils.JSON503(c, status)
		return
	}
	utils.JSON200(c, status)
}

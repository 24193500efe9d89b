package api

import (
	"net/http"

	authDelivery "noticehub-backend/internal/auth/delivery"
	directoryDelivery "noticehub-backend/internal/directory/delivery"
	noticeDelivery "noticehub-backend/internal/notice/delivery"
	"noticehub-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, noticeHandler *noticeDelivery.NoticeHandler, deviceTokenHandler *directoryDelivery.DeviceTokenHandler, cfg *config.Config) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Notice routes (protected)
		notices := api.Group("/notices")
		notices.Use(authDelivery.AuthMiddleware(cfg.JWTSecret))
		{
			notices.POST("", noticeHandler.CreateNotice)
			notices.GET("", noticeHandler.GetNotices)
			notices.GET("/:id", noticeHandler.GetNoticeByID)
			notices.PATCH("/:id/read", noticeHandler.MarkRead)
			notices.POST("/:id/dispatch", noticeHandler.Dispatch)
			notices.DELETE("/:id", noticeHandler.DeleteNotice)
			notices.POST("/sweep", noticeHandler.Sweep)
		}

		// Device token registration (protected)
		deviceToken := api.Group("/device-token")
		deviceToken.Use(authDelivery.AuthMiddleware(cfg.JWTSecret))
		{
			deviceToken.PUT("", deviceTokenHandler.RegisterDeviceToken)
			deviceToken.DELETE("", deviceTokenHandler.RemoveDeviceToken)
		}
	}
}

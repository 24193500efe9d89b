package api

import (
	directoryDelivery "noticehub-backend/internal/directory/delivery"
	noticeDelivery "noticehub-backend/internal/notice/delivery"
	"noticehub-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	noticeHandler      *noticeDelivery.NoticeHandler
	deviceTokenHandler *directoryDelivery.DeviceTokenHandler
	config             *config.Config
	engine             *gin.Engine
}

func NewHandler(noticeHandler *noticeDelivery.NoticeHandler, deviceTokenHandler *directoryDelivery.DeviceTokenHandler, cfg *config.Config) *Handler {
	engine := gin.Default()

	h := &Handler{
		noticeHandler:      noticeHandler,
		deviceTokenHandler: deviceTokenHandler,
		config:             cfg,
		engine:             engine,
	}

	SetupRoutes(engine, noticeHandler, deviceTokenHandler, cfg)
	return h
}

// Start runs the HTTP server on the given address
func (h *Handler) Start(addr string) error {
	return h.engine.Run(addr)
}

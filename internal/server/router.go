package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/tilescore/internal/handlers"
	"github.com/thereayou/tilescore/internal/middleware"
	pkgauth "github.com/thereayou/tilescore/pkg/auth"
)

func APIEndpoints(r *gin.Engine, authH *handlers.AuthHandler, roomH *handlers.RoomHandler, wsH *handlers.WebSocketHandler, jwtMgr *pkgauth.JWTManager, rdb *redis.Client) {
	// Auth endpoints
	auth := r.Group("/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.POST("/logout", authH.Logout)
	}

	// API endpoints
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.GET("/rooms/ongoing", roomH.OngoingRooms)
		api.POST("/rooms", roomH.CreateRoom)
		api.GET("/rooms/:id", roomH.GetRoom)
		api.POST("/rooms/:id/join", roomH.JoinRoom)
		api.POST("/rooms/:id/transfers", roomH.RecordTransfer)
		api.POST("/rooms/:id/ready", roomH.ToggleReady)
		api.GET("/rooms/:id/result", roomH.GetResult)
	}

	// WebSocket endpoint
	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), wsH.HandleWebSocket)
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-video-service/http/controller"
	middlewares "github.com/tnqbao/gau-video-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware, middles.TracingMiddleware)

	r.GET("/health", ctrl.Health)

	apiRoutes := r.Group("/api")
	{
		authRoutes := apiRoutes.Group("/auth")
		{
			authRoutes.POST("/register", ctrl.Register)
			authRoutes.POST("/login", ctrl.Login)
			authRoutes.GET("/me", middles.AuthMiddleware, ctrl.Me)
			authRoutes.GET("/upload-auth", middles.UploadMiddleware, ctrl.GetUploadAuth)
		}

		registerVideoRoutes(apiRoutes.Group("/video"), ctrl, middles)
	}

	registerVideoRoutes(r.Group("/video"), ctrl, middles)

	return r
}

func registerVideoRoutes(videoRoutes *gin.RouterGroup, ctrl *controller.Controller, middles *middlewares.Middlewares) {
	videoRoutes.GET("", ctrl.ListVideos)
	videoRoutes.GET("/:id", ctrl.GetVideoByID)
	videoRoutes.POST("", middles.UploadMiddleware, ctrl.CreateVideo)
}

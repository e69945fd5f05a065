package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-video-service/http/controller"
)

type Middlewares struct {
	CORSMiddleware    gin.HandlerFunc
	TracingMiddleware gin.HandlerFunc
	AuthMiddleware    gin.HandlerFunc
	// UploadMiddleware guards the upload-auth and record-creation routes.
	UploadMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	env := ctrl.Config.EnvConfig

	cors := CORSMiddleware(env)
	tracing := TracingMiddleware(env.Grafana.ServiceName)
	auth := AuthMiddleware(env)

	upload := OptionalAuthMiddleware(env)
	if env.Upload.AuthRequired {
		upload = auth
	}

	return &Middlewares{
		CORSMiddleware:    cors,
		TracingMiddleware: tracing,
		AuthMiddleware:    auth,
		UploadMiddleware:  upload,
	}, nil
}

package middlewares

import (
	"github.com/bqtran/filevault/http/controller"
	"github.com/gin-gonic/gin"
)

type Middlewares struct {
	CORSMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors := CORSMiddleware(ctrl.Config.EnvConfig)

	return &Middlewares{
		CORSMiddleware: cors,
	}, nil
}

package routes

import (
	"github.com/bqtran/filevault/http/controller"
	middlewares "github.com/bqtran/filevault/http/middleware"
	"github.com/gin-gonic/gin"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	r.LoadHTMLGlob("templates/*.html")

	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}
	r.Use(middles.CORSMiddleware)

	r.GET("/", ctrl.ShowLogin)
	r.POST("/login", ctrl.Login)
	r.GET("/logout", ctrl.Logout)

	r.GET("/files", ctrl.ListFiles)
	r.POST("/upload", ctrl.UploadFiles)
	r.POST("/delete/:id", ctrl.DeleteFile)
	r.GET("/download-multiple", ctrl.DownloadMultiple)

	r.GET("/health", ctrl.HealthCheck)

	return r
}

package controller

import (
	"github.com/bqtran/filevault/config"
	"github.com/bqtran/filevault/infra"
	"github.com/bqtran/filevault/repository"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("filevault/http")

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
	}
}

package repository

import (
	"github.com/bqtran/filevault/infra"
)

type Repository struct {
	FileRepo *FileRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		FileRepo: NewFileRepository(infra.Postgres.DB),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

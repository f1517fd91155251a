package handlers

import (
	"blogapi/internal/config"
	"blogapi/internal/service"
	"blogapi/internal/storage"

	"github.com/go-playground/validator/v10"
)

type Handlers struct {
	UserService   service.UserService
	AuthService   service.AuthService
	PostService   service.PostService
	TablesService service.TablesService
	Storage       storage.Storage
	Cfg           *config.Config
	Validate      *validator.Validate
}

func NewHandlers(service *service.Service, store storage.Storage, config *config.Config) *Handlers {
	return &Handlers{
		UserService:   service.User,
		AuthService:   service.Auth,
		PostService:   service.Post,
		TablesService: service.Tables,
		Storage:       store,
		Cfg:           config,
		Validate:      validator.New(),
	}
}

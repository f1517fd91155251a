package service

import (
	"blogapi/internal/config"
	"blogapi/internal/repository"
	"blogapi/internal/storage"
)

type Service struct {
	User   UserService
	Post   PostService
	Auth   AuthService
	Tables TablesService
}

func NewService(rep *repository.Repository, cfg *config.Config, store storage.Storage) *Service {
	hasher := NewBcryptHasher(cfg.BcryptCost)

	return &Service{
		User:   NewUserService(rep.User, store, hasher, cfg),
		Post:   NewPostService(rep.Post, store, cfg),
		Auth:   NewAuthService(rep.User, hasher, NewTokenIssuer(cfg.JWTSecret, TokenLifetime)),
		Tables: NewTablesService(rep.Tables),
	}
}

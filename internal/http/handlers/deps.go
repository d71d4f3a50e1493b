package handlers

import (
	"github.com/jmoiron/sqlx"

	"bookshelf/internal/config"
	"bookshelf/internal/repos"
	"bookshelf/internal/services"
)

type Deps struct {
	AuthHandler    *AuthHandler
	BookHandler    *BookHandler
	LibraryHandler *LibraryHandler
	UserHandler    *UserHandler
	AdminHandler   *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	userRepo := repos.NewUserRepo(db)
	bookRepo := repos.NewBookRepo(db)
	libRepo := repos.NewLibraryRepo(db)

	bookSvc := services.NewBookService(bookRepo)
	libSvc := services.NewLibraryService(libRepo, bookRepo)
	userSvc := services.NewUserService(userRepo)
	adminSvc := services.NewAdminService(userRepo, bookRepo)

	return &Deps{
		AuthHandler:    &AuthHandler{Auth: auth, TTL: cfg.TokenTTL, Secure: cfg.Production()},
		BookHandler:    &BookHandler{Books: bookSvc},
		LibraryHandler: &LibraryHandler{Library: libSvc},
		UserHandler:    &UserHandler{Users: userSvc, Secure: cfg.Production()},
		AdminHandler:   &AdminHandler{Admin: adminSvc, BulkPolicy: cfg.BulkPolicy},
	}
}

package main

import (
	"errors"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"bookshelf/internal/auth"
	"bookshelf/internal/config"
	"bookshelf/internal/http/handlers"
	applog "bookshelf/internal/log"
	"bookshelf/internal/repos"
	"bookshelf/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repos.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPass); err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	tokens, err := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.TokenSecret == "" {
		if cfg.Production() {
			log.Fatal("TOKEN_SECRET is required in production")
		}
		log.Println("[warn] TOKEN_SECRET not set; using an ephemeral key, sessions will not survive restarts")
	}
	authSvc := services.NewAuthService(repos.NewUserRepo(db), tokens)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
			}
			applog.Error(c, "server.error", err, nil)
			body := fiber.Map{"message": "something went wrong"}
			if !cfg.Production() {
				body["detail"] = err.Error()
			}
			return c.Status(fiber.StatusInternalServerError).JSON(body)
		},
	})
	// Request bodies are small JSON documents; anything bigger is abuse.
	app.Server().MaxRequestBodySize = 10 << 10 // 10 KiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, cfg, authSvc)
	secure := cfg.Production()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "welcome to the bookshelf API"})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", deps.AuthHandler.Register)
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "too many login attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	authGroup.Post("/guest/login", deps.AuthHandler.GuestLogin)
	authGroup.Post("/logout", deps.AuthHandler.Logout)

	books := api.Group("/books")
	books.Get("/", handlers.OptionalSession(authSvc, secure), deps.BookHandler.List)
	books.Get("/:id", handlers.OptionalSession(authSvc, secure), deps.BookHandler.Get)
	books.Post("/", handlers.RequireSession(authSvc, secure), deps.BookHandler.Create)
	books.Put("/:id", handlers.RequireSession(authSvc, secure), deps.BookHandler.Update)
	books.Delete("/:id", handlers.RequireSession(authSvc, secure), deps.BookHandler.Delete)

	library := api.Group("/library", handlers.RequireSession(authSvc, secure))
	library.Get("/", deps.LibraryHandler.List)
	library.Post("/:bookId", deps.LibraryHandler.Add)
	library.Put("/:bookId", deps.LibraryHandler.Update)
	library.Delete("/:bookId", deps.LibraryHandler.Remove)

	users := api.Group("/users", handlers.RequireSession(authSvc, secure))
	users.Get("/me", deps.UserHandler.Me)
	users.Put("/me", deps.UserHandler.Update)
	users.Delete("/me", deps.UserHandler.Delete)

	admin := api.Group("/admin", handlers.RequireSession(authSvc, secure), handlers.RequireAdmin())
	admin.Get("/users", deps.AdminHandler.ListUsers)
	admin.Get("/stats", deps.AdminHandler.Stats)
	admin.Post("/books/bulk", deps.AdminHandler.BulkCreate)
	admin.Delete("/users/:userId", deps.AdminHandler.DeleteUser)
	admin.Patch("/books/:id/visibility", deps.AdminHandler.SetVisibility)

	// 404 for everything else
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found: " + c.OriginalURL()})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

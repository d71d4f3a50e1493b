package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"bookshelf/internal/auth"
	"bookshelf/internal/config"
	"bookshelf/internal/domain"
	"bookshelf/internal/http/handlers"
	"bookshelf/internal/repos"
	"bookshelf/internal/services"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type fixture struct {
	app  *fiber.App
	db   *sqlx.DB
	auth *services.AuthService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithPolicy(t, config.BulkAtomic)
}

// newFixtureWithPolicy builds the full routed app against an in-memory
// database, mirroring the production wiring minus rate limiters.
func newFixtureWithPolicy(t *testing.T, bulkPolicy string) *fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := auth.NewTokenService(testKeyHex, time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	authSvc := services.NewAuthService(repos.NewUserRepo(db), tokens)

	cfg := config.Config{TokenTTL: time.Hour, BulkPolicy: bulkPolicy, Env: "development"}
	deps := handlers.NewDeps(db, cfg, authSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "something went wrong"})
		},
	})

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", deps.AuthHandler.Register)
	authGroup.Post("/login", deps.AuthHandler.Login)
	authGroup.Post("/guest/login", deps.AuthHandler.GuestLogin)
	authGroup.Post("/logout", deps.AuthHandler.Logout)

	books := api.Group("/books")
	books.Get("/", handlers.OptionalSession(authSvc, false), deps.BookHandler.List)
	books.Get("/:id", handlers.OptionalSession(authSvc, false), deps.BookHandler.Get)
	books.Post("/", handlers.RequireSession(authSvc, false), deps.BookHandler.Create)
	books.Put("/:id", handlers.RequireSession(authSvc, false), deps.BookHandler.Update)
	books.Delete("/:id", handlers.RequireSession(authSvc, false), deps.BookHandler.Delete)

	library := api.Group("/library", handlers.RequireSession(authSvc, false))
	library.Get("/", deps.LibraryHandler.List)
	library.Post("/:bookId", deps.LibraryHandler.Add)
	library.Put("/:bookId", deps.LibraryHandler.Update)
	library.Delete("/:bookId", deps.LibraryHandler.Remove)

	users := api.Group("/users", handlers.RequireSession(authSvc, false))
	users.Get("/me", deps.UserHandler.Me)
	users.Put("/me", deps.UserHandler.Update)
	users.Delete("/me", deps.UserHandler.Delete)

	admin := api.Group("/admin", handlers.RequireSession(authSvc, false), handlers.RequireAdmin())
	admin.Get("/users", deps.AdminHandler.ListUsers)
	admin.Get("/stats", deps.AdminHandler.Stats)
	admin.Post("/books/bulk", deps.AdminHandler.BulkCreate)
	admin.Delete("/users/:userId", deps.AdminHandler.DeleteUser)
	admin.Patch("/books/:id/visibility", deps.AdminHandler.SetVisibility)

	return &fixture{app: app, db: db, auth: authSvc}
}

// seedUser inserts a row directly and returns a valid session token for it.
func (f *fixture) seedUser(t *testing.T, id, email, role string) string {
	t.Helper()
	hash, err := auth.HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{ID: id, Name: "Test " + id, Email: email, Hash: hash, Role: role}
	if err := repos.NewUserRepo(f.db).Create(u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return f.auth.Tokens.Issue(id, role)
}

func (f *fixture) seedBook(t *testing.T, id, title, genre, ownerID string, visible bool) {
	t.Helper()
	b := &domain.Book{ID: id, Title: title, Author: "Some Author", Genre: genre, Visibility: visible}
	if ownerID != "" {
		b.OwnerID = &ownerID
	}
	if err := repos.NewBookRepo(f.db).Create(b); err != nil {
		t.Fatalf("seed book: %v", err)
	}
}

// do runs one request against the app. A non-empty token rides the session
// cookie; a non-empty body is sent as JSON.
func (f *fixture) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

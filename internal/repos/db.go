package repos

import (
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"bookshelf/internal/auth"
	"bookshelf/internal/domain"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user','admin','guest')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(LOWER(email));

-- Books
CREATE TABLE IF NOT EXISTS books(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  isbn TEXT UNIQUE,
  genre TEXT NOT NULL,
  description TEXT,
  published_date TEXT,
  cover_url TEXT,
  cuisine_type TEXT,
  dietary_category TEXT,
  difficulty_level TEXT CHECK (difficulty_level IN ('easy','medium','hard')),
  ingredients TEXT,
  sample_recipes TEXT,
  author_bio TEXT,
  visibility INTEGER NOT NULL DEFAULT 1,
  user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_books_title  ON books(LOWER(title));
CREATE INDEX IF NOT EXISTS idx_books_genre  ON books(LOWER(genre));
CREATE INDEX IF NOT EXISTS idx_books_author ON books(LOWER(author));
CREATE INDEX IF NOT EXISTS idx_books_owner  ON books(user_id);

-- Per-user library entries
CREATE TABLE IF NOT EXISTS user_books(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
  status TEXT NOT NULL DEFAULT 'to-read' CHECK (status IN ('to-read','reading','finished','on-hold','dnf')),
  user_rating INTEGER CHECK (user_rating BETWEEN 1 AND 5),
  user_notes TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  UNIQUE(user_id, book_id)
);
CREATE INDEX IF NOT EXISTS idx_user_books_user ON user_books(user_id);
CREATE INDEX IF NOT EXISTS idx_user_books_book ON user_books(book_id);
`
	_, err := db.Exec(schema)
	return err
}

// SeedAdmin ensures a bootstrap admin account exists (idempotent; safe to run
// every start). No-op when credentials are not configured.
func SeedAdmin(db *sqlx.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)`, email); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	log.Printf("[seed] creating bootstrap admin %s", email)
	_, err = db.Exec(`INSERT INTO users(id,name,email,password_hash,role) VALUES(?,?,?,?,?)`,
		uuid.NewString(), "Administrator", email, hash, domain.RoleAdmin)
	return err
}

// IsUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure (duplicate email, isbn or library entry).
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

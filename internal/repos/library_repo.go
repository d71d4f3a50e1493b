package repos

import (
	"github.com/jmoiron/sqlx"

	"bookshelf/internal/domain"
)

type LibraryRepo struct{ db *sqlx.DB }

func NewLibraryRepo(db *sqlx.DB) *LibraryRepo { return &LibraryRepo{db: db} }

const entryCols = `id,user_id,book_id,status,user_rating,user_notes,created_at,COALESCE(updated_at,'') AS updated_at`

func (r *LibraryRepo) Get(userID, bookID string) (*domain.UserBook, error) {
	var ub domain.UserBook
	err := r.db.Get(&ub, `SELECT `+entryCols+` FROM user_books WHERE user_id=? AND book_id=?`, userID, bookID)
	if err != nil {
		return nil, err
	}
	return &ub, nil
}

// Add inserts a new entry. A duplicate (user, book) pair surfaces as a
// UNIQUE violation for the caller to map to a conflict.
func (r *LibraryRepo) Add(ub *domain.UserBook) error {
	_, err := r.db.Exec(`
	  INSERT INTO user_books(id,user_id,book_id,status,user_rating,user_notes)
	  VALUES(?,?,?,?,?,?)`,
		ub.ID, ub.UserID, ub.BookID, ub.Status, ub.UserRating, ub.UserNotes)
	return err
}

func (r *LibraryRepo) Update(ub *domain.UserBook) error {
	_, err := r.db.Exec(`
	  UPDATE user_books SET status=?,user_rating=?,user_notes=?,updated_at=CURRENT_TIMESTAMP
	  WHERE id=?`,
		ub.Status, ub.UserRating, ub.UserNotes, ub.ID)
	return err
}

func (r *LibraryRepo) Remove(userID, bookID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM user_books WHERE user_id=? AND book_id=?`, userID, bookID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// LibraryRow is a visible book joined with the owning user's entry.
type LibraryRow struct {
	domain.Book
	EntryID    string  `db:"entry_id"`
	Status     string  `db:"status"`
	UserRating *int    `db:"user_rating"`
	UserNotes  *string `db:"user_notes"`
	AddedAt    string  `db:"added_at"`
	EntryUpd   string  `db:"entry_updated_at"`
}

// ListForUser pages through a user's library, optionally narrowed by status.
// Hidden books drop out of the listing even when the entry remains.
func (r *LibraryRepo) ListForUser(userID, status string, limit, offset int) ([]LibraryRow, int, error) {
	where := `ub.user_id = ? AND b.visibility = 1`
	args := []any{userID}
	if status != "" {
		where += ` AND ub.status = ?`
		args = append(args, status)
	}

	var total int
	err := r.db.Get(&total, `
	  SELECT COUNT(*) FROM user_books ub
	  JOIN books b ON b.id = ub.book_id
	  WHERE `+where, args...)
	if err != nil {
		return nil, 0, err
	}

	var out []LibraryRow
	err = r.db.Select(&out, `
	  SELECT
	    b.id, b.title, b.author, b.isbn, b.genre, b.description, b.published_date,
	    b.cover_url, b.cuisine_type, b.dietary_category, b.difficulty_level,
	    b.ingredients, b.sample_recipes, b.author_bio, b.visibility, b.user_id,
	    b.created_at, COALESCE(b.updated_at,'') AS updated_at,
	    ub.id AS entry_id, ub.status, ub.user_rating, ub.user_notes,
	    ub.created_at AS added_at, COALESCE(ub.updated_at,'') AS entry_updated_at
	  FROM user_books ub
	  JOIN books b ON b.id = ub.book_id
	  WHERE `+where+`
	  ORDER BY b.title ASC
	  LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	return out, total, err
}

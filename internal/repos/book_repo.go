package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"bookshelf/internal/domain"
)

type BookRepo struct{ db *sqlx.DB }

func NewBookRepo(db *sqlx.DB) *BookRepo { return &BookRepo{db: db} }

const bookCols = `
  id, title, author, isbn, genre, description, published_date, cover_url,
  cuisine_type, dietary_category, difficulty_level, ingredients,
  sample_recipes, author_bio, visibility, user_id,
  created_at, COALESCE(updated_at,'') AS updated_at`

// BookFilter narrows List. Search/Genre/Author are case-insensitive
// substring matches. ViewerID/ViewerAdmin widen the visibility clause so
// owners and admins see hidden books.
type BookFilter struct {
	Search      string
	Genre       string
	Author      string
	ViewerID    string
	ViewerAdmin bool
	Limit       int
	Offset      int
}

func (f BookFilter) whereClause() (string, []any) {
	where := `1=1`
	args := []any{}
	if !f.ViewerAdmin {
		if f.ViewerID != "" {
			where += ` AND (visibility = 1 OR user_id = ?)`
			args = append(args, f.ViewerID)
		} else {
			where += ` AND visibility = 1`
		}
	}
	if f.Search != "" {
		where += ` AND LOWER(title) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
	}
	if f.Genre != "" {
		where += ` AND LOWER(genre) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Genre)+"%")
	}
	if f.Author != "" {
		where += ` AND LOWER(author) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Author)+"%")
	}
	return where, args
}

// List returns one page of matching books plus the unpaginated match count.
func (r *BookRepo) List(f BookFilter) ([]domain.Book, int, error) {
	where, args := f.whereClause()

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM books WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	var out []domain.Book
	query := `SELECT ` + bookCols + ` FROM books WHERE ` + where + ` ORDER BY title ASC LIMIT ? OFFSET ?`
	err := r.db.Select(&out, query, append(args, f.Limit, f.Offset)...)
	return out, total, err
}

func (r *BookRepo) Get(id string) (*domain.Book, error) {
	var b domain.Book
	err := r.db.Get(&b, `SELECT `+bookCols+` FROM books WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) Create(b *domain.Book) error {
	return r.insert(r.db, b)
}

// InsertAll creates every book in a single transaction; the first failure
// rolls back the whole batch.
func (r *BookRepo) InsertAll(books []*domain.Book) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, b := range books {
		if err := r.insert(tx, b); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *BookRepo) insert(e sqlx.Execer, b *domain.Book) error {
	_, err := e.Exec(`
	  INSERT INTO books(
	    id, title, author, isbn, genre, description, published_date, cover_url,
	    cuisine_type, dietary_category, difficulty_level, ingredients,
	    sample_recipes, author_bio, visibility, user_id
	  ) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.Title, b.Author, b.ISBN, b.Genre, b.Description, b.PublishedDate, b.CoverURL,
		b.CuisineType, b.DietaryCategory, b.DifficultyLevel, b.Ingredients,
		b.SampleRecipes, b.AuthorBio, b.Visibility, b.OwnerID)
	return err
}

// Update persists the full mutable field set; the service applies the
// per-field allow-list before calling this.
func (r *BookRepo) Update(b *domain.Book) error {
	_, err := r.db.Exec(`
	  UPDATE books SET
	    title=?, author=?, isbn=?, genre=?, description=?, published_date=?,
	    cover_url=?, cuisine_type=?, dietary_category=?, difficulty_level=?,
	    ingredients=?, sample_recipes=?, author_bio=?,
	    updated_at=CURRENT_TIMESTAMP
	  WHERE id=?`,
		b.Title, b.Author, b.ISBN, b.Genre, b.Description, b.PublishedDate,
		b.CoverURL, b.CuisineType, b.DietaryCategory, b.DifficultyLevel,
		b.Ingredients, b.SampleRecipes, b.AuthorBio, b.ID)
	return err
}

func (r *BookRepo) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM books WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *BookRepo) SetVisibility(id string, visible bool) (bool, error) {
	res, err := r.db.Exec(`UPDATE books SET visibility=?,updated_at=CURRENT_TIMESTAMP WHERE id=?`, visible, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GenreCount is one row of the stats genre breakdown.
type GenreCount struct {
	Genre string `db:"genre" json:"genre"`
	Count int    `db:"count" json:"count"`
}

type BookStats struct {
	Total   int
	Visible int
	Hidden  int
	Genres  []GenreCount
}

func (r *BookRepo) Stats() (BookStats, error) {
	var s BookStats
	if err := r.db.Get(&s.Total, `SELECT COUNT(*) FROM books`); err != nil {
		return s, err
	}
	if err := r.db.Get(&s.Visible, `SELECT COUNT(*) FROM books WHERE visibility=1`); err != nil {
		return s, err
	}
	s.Hidden = s.Total - s.Visible
	err := r.db.Select(&s.Genres, `
	  SELECT genre, COUNT(*) AS count
	  FROM books
	  GROUP BY genre
	  ORDER BY count DESC, genre ASC
	  LIMIT 5`)
	return s, err
}

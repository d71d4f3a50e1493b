package domain

// Library entry statuses.
const (
	StatusToRead   = "to-read"
	StatusReading  = "reading"
	StatusFinished = "finished"
	StatusOnHold   = "on-hold"
	StatusDNF      = "dnf"
)

type Book struct {
	ID              string  `db:"id" json:"id"`
	Title           string  `db:"title" json:"title"`
	Author          string  `db:"author" json:"author"`
	ISBN            *string `db:"isbn" json:"isbn"`
	Genre           string  `db:"genre" json:"genre"`
	Description     *string `db:"description" json:"description"`
	PublishedDate   *string `db:"published_date" json:"publishedDate"`
	CoverURL        *string `db:"cover_url" json:"bookCoverUrl"`
	CuisineType     *string `db:"cuisine_type" json:"cuisineType"`
	DietaryCategory *string `db:"dietary_category" json:"dietaryCategory"`
	DifficultyLevel *string `db:"difficulty_level" json:"difficultyLevel"`
	Ingredients     *string `db:"ingredients" json:"ingredients"`
	SampleRecipes   *string `db:"sample_recipes" json:"sampleRecipes"`
	AuthorBio       *string `db:"author_bio" json:"authorBio"`
	Visibility      bool    `db:"visibility" json:"visibility"`
	OwnerID         *string `db:"user_id" json:"userId"`
	CreatedAt       string  `db:"created_at" json:"createdAt"`
	UpdatedAt       string  `db:"updated_at" json:"updatedAt,omitempty"`
}

// OwnedBy reports whether id is the book's current owner.
func (b *Book) OwnedBy(id string) bool {
	return b.OwnerID != nil && *b.OwnerID == id
}

// UserBook is one user's library entry for a shared book. At most one entry
// per (user, book) pair.
type UserBook struct {
	ID         string  `db:"id" json:"id"`
	UserID     string  `db:"user_id" json:"userId"`
	BookID     string  `db:"book_id" json:"bookId"`
	Status     string  `db:"status" json:"status"`
	UserRating *int    `db:"user_rating" json:"userRating"`
	UserNotes  *string `db:"user_notes" json:"userNotes"`
	CreatedAt  string  `db:"created_at" json:"addedAt"`
	UpdatedAt  string  `db:"updated_at" json:"updatedAt,omitempty"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusToRead, StatusReading, StatusFinished, StatusOnHold, StatusDNF:
		return true
	}
	return false
}

package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"bookshelf/internal/domain"
	"bookshelf/internal/repos"
)

type AdminService struct {
	Users *repos.UserRepo
	Books *repos.BookRepo
}

func NewAdminService(users *repos.UserRepo, books *repos.BookRepo) *AdminService {
	return &AdminService{Users: users, Books: books}
}

func (s *AdminService) ListUsers(page, limit int) (Page[domain.User], error) {
	total, err := s.Users.Count()
	if err != nil {
		return Page[domain.User]{}, err
	}
	users, err := s.Users.List(limit, (page-1)*limit)
	if err != nil {
		return Page[domain.User]{}, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return Page[domain.User]{
		TotalItems:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
		Items:       users,
	}, nil
}

// StatsReport is the admin dashboard aggregate.
type StatsReport struct {
	TotalUsers    int                `json:"totalUsers"`
	TotalBooks    int                `json:"totalBooks"`
	VisibleBooks  int                `json:"visibleBooks"`
	HiddenBooks   int                `json:"hiddenBooks"`
	PopularGenres []repos.GenreCount `json:"popularGenres"`
}

func (s *AdminService) Stats() (StatsReport, error) {
	users, err := s.Users.Count()
	if err != nil {
		return StatsReport{}, err
	}
	bs, err := s.Books.Stats()
	if err != nil {
		return StatsReport{}, err
	}
	if bs.Genres == nil {
		bs.Genres = []repos.GenreCount{}
	}
	return StatsReport{
		TotalUsers:    users,
		TotalBooks:    bs.Total,
		VisibleBooks:  bs.Visible,
		HiddenBooks:   bs.Hidden,
		PopularGenres: bs.Genres,
	}, nil
}

// BulkItemError reports a failed element of a bulk creation by its index in
// the request array.
type BulkItemError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// BulkCreateAtomic inserts every book in one transaction; the first store
// failure (for example a duplicate isbn) rolls the whole batch back.
func (s *AdminService) BulkCreateAtomic(items []BookInput) ([]domain.Book, error) {
	books := make([]*domain.Book, 0, len(items))
	for _, in := range items {
		b := bookFromInput(in)
		b.ID = uuid.NewString()
		books = append(books, b)
	}
	if err := s.Books.InsertAll(books); err != nil {
		return nil, err
	}
	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		created, err := s.Books.Get(b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *created)
	}
	return out, nil
}

// IndexedBookInput pairs a bulk element with its position in the request
// array, so per-element errors point at what the client actually sent even
// after invalid elements were filtered out.
type IndexedBookInput struct {
	Index int
	Input BookInput
}

// BulkCreatePartial inserts element-wise, reporting per-element failures
// and keeping whatever succeeded.
func (s *AdminService) BulkCreatePartial(items []IndexedBookInput) ([]domain.Book, []BulkItemError) {
	created := make([]domain.Book, 0, len(items))
	var failures []BulkItemError
	for _, it := range items {
		b := bookFromInput(it.Input)
		b.ID = uuid.NewString()
		if err := s.Books.Create(b); err != nil {
			failures = append(failures, BulkItemError{Index: it.Index, Message: bulkItemMessage(err)})
			continue
		}
		row, err := s.Books.Get(b.ID)
		if err != nil {
			failures = append(failures, BulkItemError{Index: it.Index, Message: bulkItemMessage(err)})
			continue
		}
		created = append(created, *row)
	}
	return created, failures
}

// bulkItemMessage keeps driver internals out of client responses.
func bulkItemMessage(err error) string {
	if repos.IsUniqueViolation(err) {
		return "a book with this isbn already exists"
	}
	return "book could not be created"
}

// DeleteUser removes another user's account transactionally. Admins cannot
// target themselves, and the last admin row is protected inside the
// transaction.
func (s *AdminService) DeleteUser(actor domain.Identity, userID string) error {
	if actor.ID == userID {
		return ErrAdminSelfWipe
	}
	err := s.Users.DeleteCascade(userID)
	switch {
	case errors.Is(err, repos.ErrLastAdmin):
		return ErrLastAdmin
	case errors.Is(err, sql.ErrNoRows):
		return ErrUserNotFound
	}
	return err
}

func (s *AdminService) SetVisibility(bookID string, visible bool) (*domain.Book, error) {
	ok, err := s.Books.SetVisibility(bookID, visible)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBookNotFound
	}
	return s.Books.Get(bookID)
}

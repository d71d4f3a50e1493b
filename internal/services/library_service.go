package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"bookshelf/internal/domain"
	"bookshelf/internal/repos"
)

type LibraryService struct {
	Entries *repos.LibraryRepo
	Books   *repos.BookRepo
}

func NewLibraryService(entries *repos.LibraryRepo, books *repos.BookRepo) *LibraryService {
	return &LibraryService{Entries: entries, Books: books}
}

// EntryInput is the body for adding a book to a library.
type EntryInput struct {
	Status     string  `json:"status" validate:"omitempty,oneof=to-read reading finished on-hold dnf"`
	UserRating *int    `json:"userRating" validate:"omitempty,min=1,max=5"`
	UserNotes  *string `json:"userNotes" validate:"omitempty,max=5000"`
}

// EntryUpdate mutates an existing entry; only non-nil fields change.
type EntryUpdate struct {
	Status     *string `json:"status" validate:"omitempty,oneof=to-read reading finished on-hold dnf"`
	UserRating *int    `json:"userRating" validate:"omitempty,min=1,max=5"`
	UserNotes  *string `json:"userNotes" validate:"omitempty,max=5000"`
}

// LibraryInfo is the per-user slice of a library listing row.
type LibraryInfo struct {
	UserBookID string  `json:"userBookId"`
	Status     string  `json:"status"`
	UserRating *int    `json:"userRating"`
	UserNotes  *string `json:"userNotes"`
	AddedAt    string  `json:"addedAt"`
	UpdatedAt  string  `json:"updatedAt,omitempty"`
}

// LibraryBook is a book annotated with the owning user's entry.
type LibraryBook struct {
	domain.Book
	UserLibraryInfo LibraryInfo `json:"userLibraryInfo"`
}

// List pages through the user's library, optionally filtered by status.
func (s *LibraryService) List(userID, status string, page, limit int) (Page[LibraryBook], error) {
	rows, total, err := s.Entries.ListForUser(userID, status, limit, (page-1)*limit)
	if err != nil {
		return Page[LibraryBook]{}, err
	}
	items := make([]LibraryBook, 0, len(rows))
	for _, row := range rows {
		items = append(items, LibraryBook{
			Book: row.Book,
			UserLibraryInfo: LibraryInfo{
				UserBookID: row.EntryID,
				Status:     row.Status,
				UserRating: row.UserRating,
				UserNotes:  row.UserNotes,
				AddedAt:    row.AddedAt,
				UpdatedAt:  row.EntryUpd,
			},
		})
	}
	return Page[LibraryBook]{
		TotalItems:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
		Items:       items,
	}, nil
}

// Add creates a library entry for a visible book. A second add of the same
// book conflicts; updates go through Update instead.
func (s *LibraryService) Add(user domain.Identity, bookID string, in EntryInput) (*domain.UserBook, error) {
	// Ephemeral guests have no users row for the entry to reference.
	if user.IsEphemeralGuest() {
		return nil, ErrGuestLibrary
	}
	b, err := s.Books.Get(bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if !b.Visibility && !b.OwnedBy(user.ID) && !user.IsAdmin() {
		return nil, ErrBookNotFound
	}

	if _, err := s.Entries.Get(user.ID, bookID); err == nil {
		return nil, ErrDuplicateEntry
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	ub := &domain.UserBook{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		BookID:     bookID,
		Status:     in.Status,
		UserRating: in.UserRating,
		UserNotes:  in.UserNotes,
	}
	if ub.Status == "" {
		ub.Status = domain.StatusToRead
	}
	if err := s.Entries.Add(ub); err != nil {
		// Lost the race with a concurrent add of the same pair.
		if repos.IsUniqueViolation(err) {
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return s.Entries.Get(user.ID, bookID)
}

// Update changes status/rating/notes on an existing entry. Never creates a
// row, so the (user, book) uniqueness cannot be violated here.
func (s *LibraryService) Update(userID, bookID string, in EntryUpdate) (*domain.UserBook, error) {
	ub, err := s.Entries.Get(userID, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if in.Status != nil {
		ub.Status = *in.Status
	}
	if in.UserRating != nil {
		ub.UserRating = in.UserRating
	}
	if in.UserNotes != nil {
		ub.UserNotes = in.UserNotes
	}
	if err := s.Entries.Update(ub); err != nil {
		return nil, err
	}
	return s.Entries.Get(userID, bookID)
}

func (s *LibraryService) Remove(userID, bookID string) error {
	removed, err := s.Entries.Remove(userID, bookID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrEntryNotFound
	}
	return nil
}

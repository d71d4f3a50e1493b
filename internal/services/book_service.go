package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"bookshelf/internal/auth"
	"bookshelf/internal/domain"
	"bookshelf/internal/repos"
)

type BookService struct {
	Books *repos.BookRepo
}

func NewBookService(books *repos.BookRepo) *BookService { return &BookService{Books: books} }

// BookQuery is the public listing filter. Viewer is nil for anonymous
// requests.
type BookQuery struct {
	Search string
	Genre  string
	Author string
	Page   int
	Limit  int
	Viewer *domain.Identity
}

// BookInput carries the fields accepted on creation. Optional fields stay
// nil when the client omitted them.
type BookInput struct {
	Title           string  `json:"title" validate:"required"`
	Author          string  `json:"author" validate:"required"`
	Genre           string  `json:"genre" validate:"required"`
	ISBN            *string `json:"isbn" validate:"omitempty,isbn"`
	Description     *string `json:"description" validate:"omitempty,max=1000"`
	PublishedDate   *string `json:"publishedDate" validate:"omitempty,datetime=2006-01-02"`
	CoverURL        *string `json:"bookCoverUrl" validate:"omitempty,url"`
	CuisineType     *string `json:"cuisineType"`
	DietaryCategory *string `json:"dietaryCategory"`
	DifficultyLevel *string `json:"difficultyLevel" validate:"omitempty,oneof=easy medium hard"`
	Ingredients     *string `json:"ingredients"`
	SampleRecipes   *string `json:"sampleRecipes"`
	AuthorBio       *string `json:"authorBio"`
	Visibility      *bool   `json:"visibility"`
}

// BookUpdate mirrors BookInput with every field optional. Only non-nil
// fields are applied; this is the explicit allow-list, so ownership and
// visibility cannot be smuggled through an update body.
type BookUpdate struct {
	Title           *string `json:"title" validate:"omitempty,min=1"`
	Author          *string `json:"author" validate:"omitempty,min=1"`
	Genre           *string `json:"genre" validate:"omitempty,min=1"`
	ISBN            *string `json:"isbn" validate:"omitempty,isbn"`
	Description     *string `json:"description" validate:"omitempty,max=1000"`
	PublishedDate   *string `json:"publishedDate" validate:"omitempty,datetime=2006-01-02"`
	CoverURL        *string `json:"bookCoverUrl" validate:"omitempty,url"`
	CuisineType     *string `json:"cuisineType"`
	DietaryCategory *string `json:"dietaryCategory"`
	DifficultyLevel *string `json:"difficultyLevel" validate:"omitempty,oneof=easy medium hard"`
	Ingredients     *string `json:"ingredients"`
	SampleRecipes   *string `json:"sampleRecipes"`
	AuthorBio       *string `json:"authorBio"`
}

// Page is a pagination envelope shared by listing endpoints.
type Page[T any] struct {
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Items       []T `json:"-"`
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// List returns one page of books visible to the viewer.
func (s *BookService) List(q BookQuery) (Page[domain.Book], error) {
	f := repos.BookFilter{
		Search: q.Search,
		Genre:  q.Genre,
		Author: q.Author,
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
	}
	if q.Viewer != nil {
		f.ViewerID = q.Viewer.ID
		f.ViewerAdmin = q.Viewer.IsAdmin()
	}
	books, total, err := s.Books.List(f)
	if err != nil {
		return Page[domain.Book]{}, err
	}
	if books == nil {
		books = []domain.Book{}
	}
	return Page[domain.Book]{
		TotalItems:  total,
		TotalPages:  totalPages(total, q.Limit),
		CurrentPage: q.Page,
		Items:       books,
	}, nil
}

// Get fetches one book, hiding invisible books from everyone but their
// owner and admins. Denied reads look identical to missing rows.
func (s *BookService) Get(viewer *domain.Identity, id string) (*domain.Book, error) {
	b, err := s.Books.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if !auth.CanReadBook(viewer, b) {
		return nil, ErrBookNotFound
	}
	return b, nil
}

// Create inserts a new visible-by-default book owned by the caller.
func (s *BookService) Create(owner domain.Identity, in BookInput) (*domain.Book, error) {
	b := bookFromInput(in)
	b.ID = uuid.NewString()
	ownerID := owner.ID
	b.OwnerID = &ownerID
	if err := s.Books.Create(b); err != nil {
		return nil, err
	}
	return s.Books.Get(b.ID)
}

// Update applies the provided fields after the ownership check.
func (s *BookService) Update(actor domain.Identity, id string, in BookUpdate) (*domain.Book, error) {
	b, err := s.Books.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if !auth.CanModifyBook(actor, b) {
		return nil, ErrNotBookOwner
	}

	applyBookUpdate(b, in)
	if err := s.Books.Update(b); err != nil {
		return nil, err
	}
	return s.Books.Get(id)
}

func (s *BookService) Delete(actor domain.Identity, id string) error {
	b, err := s.Books.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookNotFound
		}
		return err
	}
	if !auth.CanModifyBook(actor, b) {
		return ErrNotBookOwner
	}
	_, err = s.Books.Delete(id)
	return err
}

func bookFromInput(in BookInput) *domain.Book {
	b := &domain.Book{
		Title:           in.Title,
		Author:          in.Author,
		Genre:           in.Genre,
		ISBN:            in.ISBN,
		Description:     in.Description,
		PublishedDate:   in.PublishedDate,
		CoverURL:        in.CoverURL,
		CuisineType:     in.CuisineType,
		DietaryCategory: in.DietaryCategory,
		DifficultyLevel: in.DifficultyLevel,
		Ingredients:     in.Ingredients,
		SampleRecipes:   in.SampleRecipes,
		AuthorBio:       in.AuthorBio,
		Visibility:      true,
	}
	if in.Visibility != nil {
		b.Visibility = *in.Visibility
	}
	return b
}

func applyBookUpdate(b *domain.Book, in BookUpdate) {
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Author != nil {
		b.Author = *in.Author
	}
	if in.Genre != nil {
		b.Genre = *in.Genre
	}
	if in.ISBN != nil {
		b.ISBN = in.ISBN
	}
	if in.Description != nil {
		b.Description = in.Description
	}
	if in.PublishedDate != nil {
		b.PublishedDate = in.PublishedDate
	}
	if in.CoverURL != nil {
		b.CoverURL = in.CoverURL
	}
	if in.CuisineType != nil {
		b.CuisineType = in.CuisineType
	}
	if in.DietaryCategory != nil {
		b.DietaryCategory = in.DietaryCategory
	}
	if in.DifficultyLevel != nil {
		b.DifficultyLevel = in.DifficultyLevel
	}
	if in.Ingredients != nil {
		b.Ingredients = in.Ingredients
	}
	if in.SampleRecipes != nil {
		b.SampleRecipes = in.SampleRecipes
	}
	if in.AuthorBio != nil {
		b.AuthorBio = in.AuthorBio
	}
}

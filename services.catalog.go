package main

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// CatalogProvider describes the operations the shell drives on a catalog.
type CatalogProvider interface {
	AddBook(ctx context.Context, title, author string) error
	MarkRead(ctx context.Context, title string) error
	Filter(ctx context.Context, opts ...FilterOption) ([]Book, error)
	ListAll(ctx context.Context) ([]string, error)
	ListFiltered(ctx context.Context, opts ...FilterOption) ([]string, error)
	Count(ctx context.Context) (int, error)
}

var _ CatalogProvider = (*Catalog)(nil)

// Catalog owns the books of one session. It validates every argument
// before touching the storage so a failed call never mutates state.
type Catalog struct {
	logger  *zap.Logger
	storage BookStorage
}

// NewCatalog provides a catalog backed by the given storage.
func NewCatalog(logger *zap.Logger, storage BookStorage) *Catalog {
	return &Catalog{
		logger:  logger,
		storage: storage,
	}
}

// bookFilter holds the supplied filter criteria. A nil field means not supplied.
type bookFilter struct {
	readStatus *string
	author     *string
}

// FilterOption narrows down the books returned by Filter.
type FilterOption func(*bookFilter)

// WithReadStatus keeps books whose status matches the token `read` or `unread`.
func WithReadStatus(token string) FilterOption {
	return func(f *bookFilter) {
		f.readStatus = &token
	}
}

// ByAuthor keeps books written by exactly this author.
func ByAuthor(author string) FilterOption {
	return func(f *bookFilter) {
		f.author = &author
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// AddBook inserts a new unread book.
func (c *Catalog) AddBook(ctx context.Context, title, author string) error {
	if isBlank(title) {
		return blankFieldError("title")
	}
	if isBlank(author) {
		return blankFieldError("author")
	}

	err := c.storage.Add(ctx, Book{Title: title, Author: author})
	if errors.Is(err, ErrDuplicateKey) {
		return duplicateTitleError(title)
	}
	if err != nil {
		return err
	}
	c.logger.Debug("catalog: book added", zap.String("book.title", title), zap.String("book.author", author))
	return nil
}

// MarkRead flags the book as read. Marking a read book again is a no-op.
func (c *Catalog) MarkRead(ctx context.Context, title string) error {
	if isBlank(title) {
		return blankFieldError("title")
	}

	book, err := c.storage.GetOne(ctx, title)
	if errors.Is(err, ErrNotFound) {
		return unknownTitleError(title)
	}
	if err != nil {
		return err
	}
	if book.Read {
		return nil
	}

	book.Read = true
	if err = c.storage.Update(ctx, book); err != nil {
		if errors.Is(err, ErrNotFound) {
			return unknownTitleError(title)
		}
		return err
	}
	c.logger.Debug("catalog: book marked as read", zap.String("book.title", title))
	return nil
}

// Filter returns the books matching every supplied criteria,
// or the whole catalog when no option is given.
func (c *Catalog) Filter(ctx context.Context, opts ...FilterOption) ([]Book, error) {
	var f bookFilter
	for _, opt := range opts {
		opt(&f)
	}

	if f.author != nil && isBlank(*f.author) {
		return nil, blankFieldError("author")
	}
	var status ReadStatus
	if f.readStatus != nil {
		var err error
		if status, err = ParseReadStatus(*f.readStatus); err != nil {
			return nil, err
		}
	}

	books, err := c.storage.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if f.readStatus == nil && f.author == nil {
		return books, nil
	}

	filtered := make([]Book, 0, len(books))
	for _, b := range books {
		if f.readStatus != nil && b.Status() != status {
			continue
		}
		if f.author != nil && b.Author != *f.author {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered, nil
}

// ListAll renders every book of the catalog.
func (c *Catalog) ListAll(ctx context.Context) ([]string, error) {
	return c.ListFiltered(ctx)
}

// ListFiltered renders the books selected by Filter.
func (c *Catalog) ListFiltered(ctx context.Context, opts ...FilterOption) ([]string, error) {
	books, err := c.Filter(ctx, opts...)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(books))
	for _, b := range books {
		lines = append(lines, b.Render())
	}
	return lines, nil
}

// Count returns the number of books in the catalog.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	return c.storage.Count(ctx)
}

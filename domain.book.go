package main

import (
	"context"
	"fmt"
)

// ReadStatus is the reading state of a book.
type ReadStatus int

const (
	Unread ReadStatus = iota
	Read
)

// External tokens accepted for a ReadStatus.
const (
	ReadToken   = "read"
	UnreadToken = "unread"
)

// String returns the external token of the status.
func (rs ReadStatus) String() string {
	if rs == Read {
		return ReadToken
	}
	return UnreadToken
}

// ParseReadStatus converts an external token into a ReadStatus.
func ParseReadStatus(token string) (ReadStatus, error) {
	switch token {
	case ReadToken:
		return Read, nil
	case UnreadToken:
		return Unread, nil
	}
	return Unread, invalidArgumentError{field: "readStatus", reason: "must be " + ReadToken + " or " + UnreadToken}
}

// Book represents a book entity. The title is its unique key.
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Read   bool   `json:"read"`
}

// Status returns the reading state of the book.
func (b Book) Status() ReadStatus {
	if b.Read {
		return Read
	}
	return Unread
}

// Render formats the book the way it is listed to the user.
func (b Book) Render() string {
	return fmt.Sprintf(`"%s" by %s (%s)`, b.Title, b.Author, b.Status())
}

// BookStorage defines possible operations on book entity. Implementations
// are scoped to a single session and must iterate in a stable order.
type BookStorage interface {
	// Add inserts a new book or fails with ErrDuplicateKey.
	Add(ctx context.Context, book Book) error
	// GetOne fails with ErrNotFound when no book has this exact title.
	GetOne(ctx context.Context, title string) (Book, error)
	// Update replaces an existing book or fails with ErrNotFound.
	Update(ctx context.Context, book Book) error
	GetAll(ctx context.Context) ([]Book, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

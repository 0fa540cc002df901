package main

import "context"

type memoryBookStorage struct {
	books []Book
	index map[string]int
}

// NewMemoryBookStorage provides an instance of in-memory book storage.
// Books are listed in insertion order.
func NewMemoryBookStorage() BookStorage {
	return &memoryBookStorage{
		index: make(map[string]int),
	}
}

// Add inserts a new book record.
func (ms *memoryBookStorage) Add(_ context.Context, book Book) error {
	if _, found := ms.index[book.Title]; found {
		return ErrDuplicateKey
	}
	ms.index[book.Title] = len(ms.books)
	ms.books = append(ms.books, book)
	return nil
}

// GetOne retrieves a book record based on its title.
func (ms *memoryBookStorage) GetOne(_ context.Context, title string) (Book, error) {
	i, found := ms.index[title]
	if !found {
		return Book{}, ErrNotFound
	}
	return ms.books[i], nil
}

// Update replaces existing book record data.
func (ms *memoryBookStorage) Update(_ context.Context, book Book) error {
	i, found := ms.index[book.Title]
	if !found {
		return ErrNotFound
	}
	ms.books[i] = book
	return nil
}

// GetAll retrieves a copy of all books in insertion order.
func (ms *memoryBookStorage) GetAll(_ context.Context) ([]Book, error) {
	books := make([]Book, len(ms.books))
	copy(books, ms.books)
	return books, nil
}

// Count returns the number of stored books.
func (ms *memoryBookStorage) Count(_ context.Context) (int, error) {
	return len(ms.books), nil
}

// Close drops every book.
func (ms *memoryBookStorage) Close() error {
	ms.books = nil
	ms.index = make(map[string]int)
	return nil
}

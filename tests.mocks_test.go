package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc    func(ctx context.Context, book Book) error
	GetOneFunc func(ctx context.Context, title string) (Book, error)
	UpdateFunc func(ctx context.Context, book Book) error
	GetAllFunc func(ctx context.Context) ([]Book, error)
	CountFunc  func(ctx context.Context) (int, error)
	CloseFunc  func() error
}

// Add mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Add(ctx context.Context, book Book) error {
	return m.AddFunc(ctx, book)
}

// GetOne mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetOne(ctx context.Context, title string) (Book, error) {
	return m.GetOneFunc(ctx, title)
}

// Update mocks the behavior of updating a book by the repository.
func (m *MockBookStorage) Update(ctx context.Context, book Book) error {
	return m.UpdateFunc(ctx, book)
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// Count mocks the behavior of counting books by the repository.
func (m *MockBookStorage) Count(ctx context.Context) (int, error) {
	return m.CountFunc(ctx)
}

// Close mocks the repository release.
func (m *MockBookStorage) Close() error {
	return m.CloseFunc()
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

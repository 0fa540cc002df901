package main

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// storageFactories builds one fresh storage per backend for catalog tests.
func storageFactories() map[string]func(t *testing.T) BookStorage {
	return map[string]func(t *testing.T) BookStorage{
		StorageMemory: func(_ *testing.T) BookStorage {
			return NewMemoryBookStorage()
		},
		StorageBolt: func(t *testing.T) BookStorage {
			config := &BoltDBConfig{Timeout: 5 * time.Second, BucketName: "test.books"}
			client, err := GetBoltDBClient(config)
			require.NoError(t, err, "failed in creating a test bolt store")
			return NewBoltBookStorage(zap.NewNop(), config, client)
		},
		StorageRedis: func(t *testing.T) BookStorage {
			m := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: m.Addr()})
			return NewRedisBookStorage(zap.NewNop(), client, "s:test")
		},
	}
}

func addAllBooks(t *testing.T, c *Catalog) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.AddBook(ctx, "Moby Dick", "Herman Melville"))
	require.NoError(t, c.AddBook(ctx, "The Grapes of Wrath", "John Steinbeck"))
	require.NoError(t, c.AddBook(ctx, "Of Mice and Men", "John Steinbeck"))
}

// sorted ensures a deterministic order since it depends on the backend.
func sorted(lines []string) []string {
	sort.Strings(lines)
	return lines
}

// TestCatalog runs the catalog scenarios against every storage backend.
//
//nolint:funlen
func TestCatalog(t *testing.T) {
	ctx := context.Background()

	for name, newStorage := range storageFactories() {
		newStorage := newStorage
		newCatalog := func(t *testing.T) *Catalog {
			storage := newStorage(t)
			t.Cleanup(func() { _ = storage.Close() })
			return NewCatalog(zap.NewNop(), storage)
		}

		t.Run(name, func(t *testing.T) {
			t.Run("list added books", func(t *testing.T) {
				c := newCatalog(t)
				addAllBooks(t, c)
				lines, err := c.ListAll(ctx)
				require.NoError(t, err)
				assert.Equal(t, []string{
					`"Moby Dick" by Herman Melville (unread)`,
					`"Of Mice and Men" by John Steinbeck (unread)`,
					`"The Grapes of Wrath" by John Steinbeck (unread)`,
				}, sorted(lines))
			})

			t.Run("empty catalog lists nothing", func(t *testing.T) {
				c := newCatalog(t)
				lines, err := c.ListAll(ctx)
				require.NoError(t, err)
				assert.Empty(t, lines)
			})

			t.Run("duplicate title keeps the original record", func(t *testing.T) {
				c := newCatalog(t)
				require.NoError(t, c.AddBook(ctx, "T", "A"))
				err := c.AddBook(ctx, "T", "John Doe")
				assert.ErrorIs(t, err, ErrDuplicateKey)
				assert.Equal(t, `"T" already exists`, err.Error())

				lines, err := c.ListAll(ctx)
				require.NoError(t, err)
				assert.Equal(t, []string{`"T" by A (unread)`}, lines)
			})

			t.Run("mark read is idempotent", func(t *testing.T) {
				c := newCatalog(t)
				require.NoError(t, c.AddBook(ctx, "T", "A"))
				require.NoError(t, c.MarkRead(ctx, "T"))
				lines, err := c.ListAll(ctx)
				require.NoError(t, err)
				assert.Equal(t, []string{`"T" by A (read)`}, lines)

				require.NoError(t, c.MarkRead(ctx, "T"))
				lines, err = c.ListAll(ctx)
				require.NoError(t, err)
				assert.Equal(t, []string{`"T" by A (read)`}, lines)
			})

			t.Run("mark read unknown title", func(t *testing.T) {
				c := newCatalog(t)
				err := c.MarkRead(ctx, "missing")
				assert.ErrorIs(t, err, ErrNotFound)
				assert.Equal(t, `No books with title "missing"`, err.Error())
				n, err := c.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, 0, n)
			})

			t.Run("filter by author and status", func(t *testing.T) {
				c := newCatalog(t)
				addAllBooks(t, c)
				require.NoError(t, c.MarkRead(ctx, "The Grapes of Wrath"))

				lines, err := c.ListFiltered(ctx, ByAuthor("John Steinbeck"), WithReadStatus("unread"))
				require.NoError(t, err)
				assert.Equal(t, []string{`"Of Mice and Men" by John Steinbeck (unread)`}, lines)

				lines, err = c.ListFiltered(ctx, ByAuthor("John Steinbeck"), WithReadStatus("read"))
				require.NoError(t, err)
				assert.Equal(t, []string{`"The Grapes of Wrath" by John Steinbeck (read)`}, lines)

				lines, err = c.ListFiltered(ctx, WithReadStatus("read"))
				require.NoError(t, err)
				assert.Equal(t, []string{`"The Grapes of Wrath" by John Steinbeck (read)`}, lines)

				lines, err = c.ListFiltered(ctx, WithReadStatus("unread"))
				require.NoError(t, err)
				assert.Equal(t, []string{
					`"Moby Dick" by Herman Melville (unread)`,
					`"Of Mice and Men" by John Steinbeck (unread)`,
				}, sorted(lines))

				lines, err = c.ListFiltered(ctx, ByAuthor("John Steinbeck"))
				require.NoError(t, err)
				assert.Equal(t, []string{
					`"Of Mice and Men" by John Steinbeck (unread)`,
					`"The Grapes of Wrath" by John Steinbeck (read)`,
				}, sorted(lines))
			})

			t.Run("author match is exact", func(t *testing.T) {
				c := newCatalog(t)
				addAllBooks(t, c)
				books, err := c.Filter(ctx, ByAuthor("john steinbeck"))
				require.NoError(t, err)
				assert.Empty(t, books)
				books, err = c.Filter(ctx, ByAuthor(" John Steinbeck"))
				require.NoError(t, err)
				assert.Empty(t, books)
			})

			t.Run("invalid arguments leave the catalog unchanged", func(t *testing.T) {
				c := newCatalog(t)
				require.NoError(t, c.AddBook(ctx, "T", "A"))

				assert.ErrorIs(t, c.AddBook(ctx, "", "A"), ErrInvalidArgument)
				assert.ErrorIs(t, c.AddBook(ctx, "  ", "A"), ErrInvalidArgument)
				assert.ErrorIs(t, c.AddBook(ctx, "U", ""), ErrInvalidArgument)
				assert.ErrorIs(t, c.AddBook(ctx, "U", "  "), ErrInvalidArgument)
				assert.ErrorIs(t, c.MarkRead(ctx, " "), ErrInvalidArgument)

				_, err := c.ListFiltered(ctx, WithReadStatus("maybe"))
				assert.ErrorIs(t, err, ErrInvalidArgument)
				_, err = c.ListFiltered(ctx, ByAuthor(""))
				assert.ErrorIs(t, err, ErrInvalidArgument)

				lines, err := c.ListAll(ctx)
				require.NoError(t, err)
				assert.Equal(t, []string{`"T" by A (unread)`}, lines)
			})
		})
	}
}

// TestCatalogValidationMessages ensures errors name the rejected field.
func TestCatalogValidationMessages(t *testing.T) {
	c := NewCatalog(zap.NewNop(), NewMemoryBookStorage())
	ctx := context.Background()

	err := c.AddBook(ctx, "", "A")
	assert.EqualError(t, err, "title must be a non empty string")
	err = c.AddBook(ctx, "T", " ")
	assert.EqualError(t, err, "author must be a non empty string")
	_, err = c.Filter(ctx, WithReadStatus("maybe"))
	assert.EqualError(t, err, "readStatus must be read or unread")

	var argErr invalidArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "readStatus", argErr.Field())
}

// TestCatalogStorageFailures ensures storage errors surface unchanged
// and that validation failures never reach the storage.
func TestCatalogStorageFailures(t *testing.T) {
	ctx := context.Background()
	storageErr := errors.New("storage failure")
	calls := 0
	mockRepo := &MockBookStorage{
		AddFunc: func(ctx context.Context, book Book) error {
			calls++
			return storageErr
		},
		GetOneFunc: func(ctx context.Context, title string) (Book, error) {
			calls++
			return Book{Title: title, Author: "A"}, nil
		},
		UpdateFunc: func(ctx context.Context, book Book) error {
			calls++
			assert.True(t, book.Read)
			return storageErr
		},
		GetAllFunc: func(ctx context.Context) ([]Book, error) {
			calls++
			return nil, storageErr
		},
	}
	c := NewCatalog(zap.NewNop(), mockRepo)

	t.Run("should fail: add", func(t *testing.T) {
		assert.Equal(t, storageErr, c.AddBook(ctx, "T", "A"))
	})

	t.Run("should fail: mark read", func(t *testing.T) {
		assert.Equal(t, storageErr, c.MarkRead(ctx, "T"))
	})

	t.Run("should fail: list", func(t *testing.T) {
		lines, err := c.ListAll(ctx)
		assert.Equal(t, storageErr, err)
		assert.Nil(t, lines)
	})

	t.Run("should not call storage: invalid arguments", func(t *testing.T) {
		calls = 0
		assert.Error(t, c.AddBook(ctx, "", "A"))
		assert.Error(t, c.MarkRead(ctx, ""))
		_, err := c.ListFiltered(ctx, WithReadStatus("maybe"))
		assert.Error(t, err)
		assert.Equal(t, 0, calls)
	})
}

// TestCatalogMarkReadSkipsWriteWhenRead ensures an already read book is not rewritten.
func TestCatalogMarkReadSkipsWriteWhenRead(t *testing.T) {
	mockRepo := &MockBookStorage{
		GetOneFunc: func(ctx context.Context, title string) (Book, error) {
			return Book{Title: title, Author: "A", Read: true}, nil
		},
		UpdateFunc: func(ctx context.Context, book Book) error {
			t.Fatal("update must not be called")
			return nil
		},
	}
	c := NewCatalog(zap.NewNop(), mockRepo)
	assert.NoError(t, c.MarkRead(context.Background(), "T"))
}

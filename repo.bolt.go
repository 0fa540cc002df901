package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltBookStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient opens the session scratch database and provides a ready to
// use client. The books bucket is recreated so every session starts empty.
// An empty file path gets a fresh temporary file owned by the session.
func GetBoltDBClient(config *BoltDBConfig) (*bolt.DB, error) {
	if config.FilePath == "" {
		f, err := os.CreateTemp("", "library.bolt.db-")
		if err != nil {
			return nil, fmt.Errorf("failed to create the database file, %v", err)
		}
		f.Close()
		config.FilePath = f.Name()
		config.scratch = true
	}

	db, err := bolt.Open(config.FilePath, 0o600, &bolt.Options{Timeout: config.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		name := []byte(config.BucketName)
		if tx.Bucket(name) != nil {
			if errD := tx.DeleteBucket(name); errD != nil {
				return fmt.Errorf("failed to reset %s bucket: %v", config.BucketName, errD)
			}
		}
		if _, errB := tx.CreateBucket(name); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltBookStorage provides an instance of bolt-based book storage.
func NewBoltBookStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) BookStorage {
	return &boltBookStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based book storage. A scratch file is removed,
// a user provided file only loses the session bucket.
func (bs *boltBookStorage) Close() error {
	if !bs.config.scratch {
		err := bs.client.Update(func(tx *bolt.Tx) error {
			return tx.DeleteBucket([]byte(bs.config.BucketName))
		})
		if err != nil && err != bolt.ErrBucketNotFound {
			bs.logger.Warn("bolt: failed to drop session bucket", zap.String("bucket", bs.config.BucketName), zap.Error(err))
		}
		return bs.client.Close()
	}

	err := bs.client.Close()
	if rerr := os.Remove(bs.config.FilePath); rerr != nil && !os.IsNotExist(rerr) {
		bs.logger.Warn("bolt: failed to remove database file", zap.String("path", bs.config.FilePath), zap.Error(rerr))
	}
	return err
}

// Add inserts a new book record into boltdb store.
func (bs *boltBookStorage) Add(_ context.Context, book Book) error {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bs.config.BucketName))
		if b.Get([]byte(book.Title)) != nil {
			return ErrDuplicateKey
		}
		return b.Put([]byte(book.Title), bookBytes)
	})
}

// GetOne retrieves a book record based on its title from boltdb store.
func (bs *boltBookStorage) GetOne(_ context.Context, title string) (Book, error) {
	var book Book
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return book, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(bs.config.BucketName)).Get([]byte(title))
	if result == nil {
		return book, ErrNotFound
	}
	err = json.Unmarshal(result, &book)
	return book, err
}

// Update replaces existing book record data.
func (bs *boltBookStorage) Update(_ context.Context, book Book) error {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return bs.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bs.config.BucketName))
		if b.Get([]byte(book.Title)) == nil {
			return ErrNotFound
		}
		return b.Put([]byte(book.Title), bookBytes)
	})
}

// GetAll retrieves a list of all books stored in the bolt database, ordered by title bytes.
func (bs *boltBookStorage) GetAll(_ context.Context) ([]Book, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Create a cursor on the books' bucket.
	c := tx.Bucket([]byte(bs.config.BucketName)).Cursor()

	books := []Book{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if err = json.Unmarshal(v, &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// Count returns the number of keys of the books' bucket.
func (bs *boltBookStorage) Count(_ context.Context) (int, error) {
	var n int
	err := bs.client.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bs.config.BucketName)).Stats().KeyN
		return nil
	})
	return n, err
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BooksKeyPattern is the hash holding one session's books, keyed by title.
const BooksKeyPattern string = "library:%s:books"

type redisBookStorage struct {
	logger *zap.Logger
	client *redis.Client
	key    string
}

// NewRedisBookStorage provides an instance of redis-based book storage
// scoped to the given session.
func NewRedisBookStorage(logger *zap.Logger, client *redis.Client, sessionID string) BookStorage {
	return &redisBookStorage{
		logger: logger,
		client: client,
		key:    fmt.Sprintf(BooksKeyPattern, sessionID),
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Host, config.Port),
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolSize:     config.PoolSize,
		PoolTimeout:  config.PoolTimeout,
		Password:     config.Password,
		Username:     config.Username,
		DB:           config.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Add inserts a new book record only if the title is not yet present.
func (rs *redisBookStorage) Add(ctx context.Context, book Book) error {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return err
	}
	created, err := rs.client.HSetNX(ctx, rs.key, book.Title, bookBytes).Result()
	if err != nil {
		return err
	}
	if !created {
		return ErrDuplicateKey
	}
	return nil
}

// GetOne retrieves a book record based on its title.
func (rs *redisBookStorage) GetOne(ctx context.Context, title string) (Book, error) {
	var book Book
	bookJSONString, err := rs.client.HGet(ctx, rs.key, title).Result()
	if err == redis.Nil {
		return book, ErrNotFound
	}
	if err != nil {
		return book, err
	}
	err = json.Unmarshal([]byte(bookJSONString), &book)
	return book, err
}

// Update replaces existing book record data.
func (rs *redisBookStorage) Update(ctx context.Context, book Book) error {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return err
	}
	exists, err := rs.client.HExists(ctx, rs.key, book.Title).Result()
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return rs.client.HSet(ctx, rs.key, book.Title, bookBytes).Err()
}

// GetAll retrieves a list of all books stored in the session hash.
func (rs *redisBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	mapBooks, err := rs.client.HVals(ctx, rs.key).Result()
	if err != nil {
		return nil, err
	}
	books := []Book{}
	for _, bookJSONString := range mapBooks {
		var book Book
		if err = json.Unmarshal([]byte(bookJSONString), &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// Count returns the number of books stored in the session hash.
func (rs *redisBookStorage) Count(ctx context.Context) (int, error) {
	n, err := rs.client.HLen(ctx, rs.key).Result()
	return int(n), err
}

// Close drops the session hash and closes the client.
func (rs *redisBookStorage) Close() error {
	if err := rs.client.Del(context.Background(), rs.key).Err(); err != nil {
		rs.logger.Warn("redis: failed to delete session books", zap.String("key", rs.key), zap.Error(err))
	}
	return rs.client.Close()
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"bulletin/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Fixed collection keys. Each collection is stored as one JSON-serialized
// list, mirroring the layout the board used in browser local storage.
const (
	postsKey    = "board:posts"
	commentsKey = "board:comments"
)

// BadgerStore implements Store on an embedded Badger database.
type BadgerStore struct {
	db       *badger.DB
	dbPath   string
	isTestDB bool
}

// OpenBadger opens (or creates) the database at path. An empty path or the
// literal "test_db" opens a unique temporary directory that is wiped on Close,
// for test isolation.
func OpenBadger(path string) (*BadgerStore, error) {
	isTest := false
	if path == "" || path == "test_db" {
		tempPath, err := os.MkdirTemp("", "bulletin_test_db_")
		if err != nil {
			return nil, fmt.Errorf("error creating temp dir: %v", err)
		}
		path = tempPath
		isTest = true
	}
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	if isTest {
		if err := db.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to drop all keys: %v", err)
		}
	}
	return &BadgerStore{
		db:       db,
		dbPath:   path,
		isTestDB: isTest,
	}, nil
}

// Close closes the database and removes it when it was a test database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return err
	}
	if s.isTestDB {
		if err := os.RemoveAll(s.dbPath); err != nil {
			return fmt.Errorf("failed to cleanup test database: %v", err)
		}
	}
	return nil
}

// readList loads the JSON list stored under key. A missing key is an empty
// collection, not an error.
func readList[T any](txn *badger.Txn, key string) ([]T, error) {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []T
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &list)
	})
	return list, err
}

func writeList[T any](txn *badger.Txn, key string, list []T) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %v", key, err)
	}
	return txn.Set([]byte(key), data)
}

// Post methods

func (s *BadgerStore) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = uuid.NewString()
	post.BeforeCreate()

	err := s.db.Update(func(txn *badger.Txn) error {
		posts, err := readList[*models.Post](txn, postsKey)
		if err != nil {
			return err
		}
		posts = append([]*models.Post{post}, posts...)
		return writeList(txn, postsKey, posts)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

func (s *BadgerStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var found *models.Post
	err := s.db.View(func(txn *badger.Txn) error {
		posts, err := readList[*models.Post](txn, postsKey)
		if err != nil {
			return err
		}
		for _, p := range posts {
			if p.ID == id {
				found = p
				return nil
			}
		}
		return ErrNotFound
	})
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return found, nil
}

func (s *BadgerStore) UpdatePost(ctx context.Context, post *models.Post) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		posts, err := readList[*models.Post](txn, postsKey)
		if err != nil {
			return err
		}
		for i, p := range posts {
			if p.ID == post.ID {
				// Creation time and view count survive edits.
				post.CreatedAt = p.CreatedAt
				post.Views = p.Views
				post.BeforeUpdate()
				posts[i] = post
				return writeList(txn, postsKey, posts)
			}
		}
		return ErrNotFound
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

// DeletePost removes the post and its comments in a single transaction, so
// the cascade can never be observed half-done.
func (s *BadgerStore) DeletePost(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		posts, err := readList[*models.Post](txn, postsKey)
		if err != nil {
			return err
		}
		kept := posts[:0]
		for _, p := range posts {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(posts) {
			return ErrNotFound
		}
		if err := writeList(txn, postsKey, kept); err != nil {
			return err
		}

		comments, err := readList[*models.Comment](txn, commentsKey)
		if err != nil {
			return err
		}
		keptComments := comments[:0]
		for _, c := range comments {
			if c.PostID != id {
				keptComments = append(keptComments, c)
			}
		}
		return writeList(txn, commentsKey, keptComments)
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

func (s *BadgerStore) ListPosts(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		posts, err = readList[*models.Post](txn, postsKey)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *BadgerStore) IncrementViews(ctx context.Context, id string) (int, error) {
	var views int
	err := s.db.Update(func(txn *badger.Txn) error {
		posts, err := readList[*models.Post](txn, postsKey)
		if err != nil {
			return err
		}
		for _, p := range posts {
			if p.ID == id {
				p.Views++
				views = p.Views
				return writeList(txn, postsKey, posts)
			}
		}
		return ErrNotFound
	})
	if errors.Is(err, ErrNotFound) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return views, nil
}

// Comment methods

func (s *BadgerStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = uuid.NewString()
	comment.BeforeCreate()

	err := s.db.Update(func(txn *badger.Txn) error {
		comments, err := readList[*models.Comment](txn, commentsKey)
		if err != nil {
			return err
		}
		comments = append(comments, comment)
		return writeList(txn, commentsKey, comments)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

func (s *BadgerStore) DeleteComment(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		comments, err := readList[*models.Comment](txn, commentsKey)
		if err != nil {
			return err
		}
		kept := comments[:0]
		for _, c := range comments {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		if len(kept) == len(comments) {
			return ErrNotFound
		}
		return writeList(txn, commentsKey, kept)
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

func (s *BadgerStore) ListCommentsForPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.db.View(func(txn *badger.Txn) error {
		all, err := readList[*models.Comment](txn, commentsKey)
		if err != nil {
			return err
		}
		for _, c := range all {
			if c.PostID == postID {
				comments = append(comments, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

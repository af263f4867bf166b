package store

import (
	"context"
	"fmt"
	"log"
	"sync"

	"bulletin/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// streamSubscription cancels a change-stream watcher. Cancel blocks until the
// watcher goroutine has returned, so no callback is delivered afterwards.
type streamSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *streamSubscription) Cancel() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Done is closed when the watcher goroutine exits, whether through Cancel or
// because the stream failed.
func (s *streamSubscription) Done() <-chan struct{} {
	return s.done
}

// SubscribePosts delivers the current post collection immediately, then a
// fresh snapshot after every change committed to the posts collection,
// including writes by other clients.
func (s *MongoStore) SubscribePosts(ctx context.Context, fn func([]*models.Post)) (Subscription, error) {
	return s.watch(ctx, s.posts, func(ctx context.Context) error {
		posts, err := s.ListPosts(ctx)
		if err != nil {
			return err
		}
		fn(posts)
		return nil
	})
}

// SubscribeComments has the same contract as SubscribePosts but delivers the
// whole comment collection; subscribers filter by post id themselves.
func (s *MongoStore) SubscribeComments(ctx context.Context, fn func([]*models.Comment)) (Subscription, error) {
	return s.watch(ctx, s.comments, func(ctx context.Context) error {
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := s.comments.Find(ctx, bson.M{}, opts)
		if err != nil {
			return fmt.Errorf("%w: failed to list comments: %v", ErrBackend, err)
		}
		var docs []mongoComment
		if err := cursor.All(ctx, &docs); err != nil {
			return fmt.Errorf("%w: decode error: %v", ErrBackend, err)
		}
		comments := make([]*models.Comment, 0, len(docs))
		for i := range docs {
			comments = append(comments, docs[i].toModel())
		}
		fn(comments)
		return nil
	})
}

// watch runs deliver once for the initial snapshot and once per change-stream
// event. All deliveries happen on one goroutine, so callbacks never overlap.
func (s *MongoStore) watch(ctx context.Context, coll *mongo.Collection, deliver func(context.Context) error) (Subscription, error) {
	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open change stream on %s: %v", ErrBackend, coll.Name(), err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &streamSubscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer stream.Close(context.Background())

		if err := deliver(subCtx); err != nil {
			if subCtx.Err() == nil {
				log.Printf("change feed: initial %s snapshot failed: %v", coll.Name(), err)
			}
			return
		}
		for stream.Next(subCtx) {
			if err := deliver(subCtx); err != nil {
				if subCtx.Err() != nil {
					return
				}
				log.Printf("change feed: %s snapshot failed: %v", coll.Name(), err)
			}
		}
		if err := stream.Err(); err != nil && subCtx.Err() == nil {
			log.Printf("change feed: %s stream closed: %v", coll.Name(), err)
		}
	}()

	return sub, nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bulletin/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoPost is the document shape of a post. The document id is assigned by
// the server and exposed to the rest of the application as its hex form.
type mongoPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Author    string             `bson:"author"`
	Views     int                `bson:"views"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type mongoComment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PostID    string             `bson:"postId"`
	Author    string             `bson:"author"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (p *mongoPost) toModel() *models.Post {
	return &models.Post{
		ID:        p.ID.Hex(),
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		Views:     p.Views,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (c *mongoComment) toModel() *models.Comment {
	return &models.Comment{
		ID:        c.ID.Hex(),
		PostID:    c.PostID,
		Author:    c.Author,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// MongoStore implements Store on two MongoDB collections, one document per
// post and per comment. It also implements ChangeFeed via change streams.
type MongoStore struct {
	client   *mongo.Client
	posts    *mongo.Collection
	comments *mongo.Collection
}

// OpenMongo connects to the database at url and prepares the posts and
// comments collections, ensuring their indexes.
func OpenMongo(ctx context.Context, url, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	db := client.Database(dbName)
	s := &MongoStore{
		client:   client,
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	postIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	commentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "postId", Value: 1}}},
	}
	if _, err := s.posts.Indexes().CreateMany(ctx, postIndexes); err != nil {
		return fmt.Errorf("%w: failed to ensure post indexes: %v", ErrBackend, err)
	}
	if _, err := s.comments.Indexes().CreateMany(ctx, commentIndexes); err != nil {
		return fmt.Errorf("%w: failed to ensure comment indexes: %v", ErrBackend, err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// Post methods

func (s *MongoStore) CreatePost(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()
	doc := mongoPost{
		Title:     post.Title,
		Content:   post.Content,
		Author:    post.Author,
		Views:     0,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	res, err := s.posts.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("%w: failed to insert post: %v", ErrBackend, err)
	}
	post.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *MongoStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("not a document id %q: %w", id, ErrNotFound)
	}
	var doc mongoPost
	err = s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("no post with id %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find post: %v", ErrBackend, err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) UpdatePost(ctx context.Context, post *models.Post) error {
	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return fmt.Errorf("not a document id %q: %w", post.ID, ErrNotFound)
	}
	update := bson.M{
		"$set": bson.M{
			"title":     post.Title,
			"content":   post.Content,
			"author":    post.Author,
			"updatedAt": time.Now().UTC(),
		},
	}
	opt := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoPost
	err = s.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opt).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("no post with id %s: %w", post.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to update post: %v", ErrBackend, err)
	}
	*post = *doc.toModel()
	return nil
}

// DeletePost deletes the post document and then every comment referencing it.
// All comment deletions are issued before the operation reports success; a
// comment-deletion failure fails the whole delete. The two steps are not one
// transaction, so a crash in between can leave orphaned comments behind.
func (s *MongoStore) DeletePost(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("not a document id %q: %w", id, ErrNotFound)
	}
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: failed to delete post: %v", ErrBackend, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("no post with id %s: %w", id, ErrNotFound)
	}
	if _, err := s.comments.DeleteMany(ctx, bson.M{"postId": id}); err != nil {
		return fmt.Errorf("%w: failed to cascade comment delete: %v", ErrBackend, err)
	}
	return nil
}

func (s *MongoStore) ListPosts(ctx context.Context) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list posts: %v", ErrBackend, err)
	}
	var docs []mongoPost
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrBackend, err)
	}
	posts := make([]*models.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

// IncrementViews uses a field-level $inc so concurrent increments from other
// clients are never lost.
func (s *MongoStore) IncrementViews(ctx context.Context, id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("not a document id %q: %w", id, ErrNotFound)
	}
	update := bson.M{"$inc": bson.M{"views": 1}}
	opt := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoPost
	err = s.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opt).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("no post with id %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: failed to increment views: %v", ErrBackend, err)
	}
	return doc.Views, nil
}

// Comment methods

func (s *MongoStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.BeforeCreate()
	doc := mongoComment{
		PostID:    comment.PostID,
		Author:    comment.Author,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	res, err := s.comments.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("%w: failed to insert comment: %v", ErrBackend, err)
	}
	comment.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *MongoStore) DeleteComment(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("not a document id %q: %w", id, ErrNotFound)
	}
	res, err := s.comments.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: failed to delete comment: %v", ErrBackend, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("no comment with id %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) ListCommentsForPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.comments.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list comments: %v", ErrBackend, err)
	}
	var docs []mongoComment
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrBackend, err)
	}
	comments := make([]*models.Comment, 0, len(docs))
	for i := range docs {
		comments = append(comments, docs[i].toModel())
	}
	return comments, nil
}

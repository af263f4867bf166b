package routes

import (
	"net/http"
	"time"

	"bulletin/app/controllers"
	"bulletin/app/middleware"
	"bulletin/app/store"

	"github.com/gorilla/mux"
)

// SetupRoutes defines the application's routes and returns a router backed by
// the given store.
func SetupRoutes(s store.Store) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)

	postController := controllers.NewPostController(s)
	commentController := controllers.NewCommentController(s)
	feedController := controllers.NewFeedController(s)

	// API routes
	api := router.PathPrefix("/api").Subrouter()

	// Posts API endpoints
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("/{id}", postController.Show).Methods("GET")
	posts.HandleFunc("", postController.Create).Methods("POST")
	posts.HandleFunc("/{id}", postController.Edit).Methods("PUT")
	posts.HandleFunc("/{id}", postController.Delete).Methods("DELETE")

	// Comments API endpoints
	posts.HandleFunc("/{postId}/comments", commentController.Index).Methods("GET")
	posts.HandleFunc("/{postId}/comments", commentController.Create).Methods("POST")
	api.HandleFunc("/comments/{id}", commentController.Delete).Methods("DELETE")

	// Live change feed endpoints (cloud backend only)
	api.HandleFunc("/stream/posts", feedController.StreamPosts).Methods("GET")
	api.HandleFunc("/stream/posts/{postId}/comments", feedController.StreamPostComments).Methods("GET")

	return router
}

// NewServer builds the HTTP server for the router. No write deadline is set:
// the event-stream endpoints stay open until the client disconnects, and a
// fixed write timeout would sever them mid-stream. Slow or stalled clients
// are bounded by the read timeouts instead.
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Handler:           router,
		Addr:              addr,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
	}
}

package controllers

import (
	"encoding/json"
	"net/http"

	"bulletin/app/models"
	"bulletin/app/services"
	"bulletin/app/store"

	"github.com/gorilla/mux"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a new CommentController backed by the given store
func NewCommentController(s store.Store) *CommentController {
	return &CommentController{
		comments: services.NewCommentService(s),
	}
}

type commentRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Index lists a post's comments, newest first
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	comments, err := cc.comments.ListPostComments(r.Context(), postID)
	if err != nil {
		sendError(w, err)
		return
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	sendJSON(w, http.StatusOK, comments)
}

// Create handles adding a comment to a post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	comment, err := cc.comments.CreateComment(r.Context(), postID, req.Author, req.Content)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, comment)
}

// Delete handles deleting a single comment
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := cc.comments.DeleteComment(r.Context(), id); err != nil {
		sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

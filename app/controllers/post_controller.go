package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bulletin/app/models"
	"bulletin/app/services"
	"bulletin/app/store"
	"bulletin/app/view"

	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for board posts
type PostController struct {
	posts    *services.PostService
	comments *services.CommentService
}

// NewPostController creates a new PostController backed by the given store
func NewPostController(s store.Store) *PostController {
	return &PostController{
		posts:    services.NewPostService(s),
		comments: services.NewCommentService(s),
	}
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// indexResponse is one render-ready page of the board list.
type indexResponse struct {
	Posts      []*models.Post   `json:"posts"`
	Page       int              `json:"page"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
	PageWindow []view.PageToken `json:"pageWindow"`
}

// Index lists posts: optionally search-filtered by q, then paginated.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	perPage := view.DefaultPageSize
	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil && pp > 0 {
			perPage = pp
		}
	}

	posts, err := pc.posts.ListPosts(r.Context())
	if err != nil {
		sendError(w, err)
		return
	}

	filtered := view.Filter(posts, r.URL.Query().Get("q"))
	window := view.Paginate(filtered, page, perPage)
	items := window.Items
	if items == nil {
		items = []*models.Post{}
	}

	sendJSON(w, http.StatusOK, indexResponse{
		Posts:      items,
		Page:       window.Page,
		Total:      window.Total,
		TotalPages: window.TotalPages,
		PageWindow: view.BuildPageWindow(window.Page, window.TotalPages),
	})
}

// Show displays a single post with its comments, recording the view.
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	post, err := pc.posts.ViewPost(r.Context(), id)
	if err != nil {
		sendError(w, err)
		return
	}
	comments, err := pc.comments.ListPostComments(r.Context(), id)
	if err != nil {
		sendError(w, err)
		return
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"post":     post,
		"comments": comments,
	})
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	post, err := pc.posts.CreatePost(r.Context(), req.Title, req.Content, req.Author)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, post)
}

// Edit handles editing an existing post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	post, err := pc.posts.UpdatePost(r.Context(), id, req.Title, req.Content, req.Author)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post together with its comments
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := pc.posts.DeletePost(r.Context(), id); err != nil {
		sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package view

import (
	"fmt"
	"testing"

	"bulletin/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePosts(n int) []*models.Post {
	posts := make([]*models.Post, n)
	for i := range posts {
		posts[i] = &models.Post{
			ID:      fmt.Sprintf("p%d", i+1),
			Title:   fmt.Sprintf("Post %d", i+1),
			Content: "content",
			Author:  "author",
		}
	}
	return posts
}

func ids(posts []*models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	posts := []*models.Post{
		{ID: "p1", Title: "Welcome aboard", Content: "hello there", Author: "Alice"},
		{ID: "p2", Title: "Second post", Content: "general chatter", Author: "Bob"},
		{ID: "p3", Title: "Notice", Content: "the board closes at HELLO o'clock", Author: "alice"},
	}

	t.Run("blank term returns input unchanged", func(t *testing.T) {
		assert.Equal(t, posts, Filter(posts, ""))
		assert.Equal(t, posts, Filter(posts, "   "))
	})

	t.Run("case-insensitive title match", func(t *testing.T) {
		assert.Equal(t, []string{"p1"}, ids(Filter(posts, "WELCOME")))
	})

	t.Run("matches content and author, preserving order", func(t *testing.T) {
		assert.Equal(t, []string{"p1", "p3"}, ids(Filter(posts, "hello")))
		assert.Equal(t, []string{"p1", "p3"}, ids(Filter(posts, "Alice")))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Filter(posts, "nothing like this"))
	})
}

func TestPaginate(t *testing.T) {
	t.Run("exactly one full page", func(t *testing.T) {
		w := Paginate(makePosts(10), 1, 10)
		assert.Equal(t, 1, w.TotalPages)
		assert.Len(t, w.Items, 10)
	})

	t.Run("overflow spills to second page", func(t *testing.T) {
		w := Paginate(makePosts(11), 2, 10)
		assert.Equal(t, 2, w.TotalPages)
		require.Len(t, w.Items, 1)
		assert.Equal(t, "p11", w.Items[0].ID)
	})

	t.Run("empty collection is the empty state", func(t *testing.T) {
		w := Paginate(nil, 1, 10)
		assert.Equal(t, 0, w.TotalPages)
		assert.Empty(t, w.Items)
	})

	t.Run("out-of-range page returns an empty window", func(t *testing.T) {
		w := Paginate(makePosts(5), 3, 10)
		assert.Equal(t, 1, w.TotalPages)
		assert.Empty(t, w.Items)

		w = Paginate(makePosts(5), 0, 10)
		assert.Empty(t, w.Items)
	})

	t.Run("middle page", func(t *testing.T) {
		w := Paginate(makePosts(25), 2, 10)
		assert.Equal(t, 3, w.TotalPages)
		require.Len(t, w.Items, 10)
		assert.Equal(t, "p11", w.Items[0].ID)
		assert.Equal(t, "p20", w.Items[9].ID)
	})
}

func TestBuildPageWindow(t *testing.T) {
	page := func(n int) PageToken { return PageToken{Page: n} }
	gap := PageToken{Ellipsis: true}

	t.Run("middle of a long pager", func(t *testing.T) {
		want := []PageToken{
			page(1), gap, page(3), page(4), page(5), page(6), page(7), gap, page(10),
		}
		assert.Equal(t, want, BuildPageWindow(5, 10))
	})

	t.Run("near the start emits no leading gap or duplicates", func(t *testing.T) {
		want := []PageToken{
			page(1), page(2), page(3), page(4), gap, page(10),
		}
		assert.Equal(t, want, BuildPageWindow(2, 10))
	})

	t.Run("near the end emits no trailing gap or duplicates", func(t *testing.T) {
		want := []PageToken{
			page(1), gap, page(7), page(8), page(9), page(10),
		}
		assert.Equal(t, want, BuildPageWindow(9, 10))
	})

	t.Run("small pager lists every page", func(t *testing.T) {
		want := []PageToken{page(1), page(2), page(3)}
		assert.Equal(t, want, BuildPageWindow(2, 3))
	})

	t.Run("single page", func(t *testing.T) {
		assert.Equal(t, []PageToken{page(1)}, BuildPageWindow(1, 1))
	})

	t.Run("no pages", func(t *testing.T) {
		assert.Empty(t, BuildPageWindow(1, 0))
	})
}

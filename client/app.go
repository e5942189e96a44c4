package client

import (
	"context"
	"log"
	"sync"
)

// Backend is the part of the posts API the App needs. *API implements it
type Backend interface {
	List(ctx context.Context) ([]Post, error)
	Create(ctx context.Context, title, content string) (Post, error)
	Update(ctx context.Context, id, title, content string) (Post, error)
	Delete(ctx context.Context, id string) error
}

// State is everything the posts page shows. Nothing in here is persisted
type State struct {
	Posts []Post

	// New post form
	Title   string
	Content string

	// At most one post is edited at a time
	EditingID   string
	EditTitle   string
	EditContent string

	Loading    bool // until the first fetch settled
	IsAdding   bool
	IsSaving   bool
	DeletingID string
}

// App holds the page state and runs the user actions against the API.
// The lock is not held during network calls, so busy flags can be observed while a request is in flight
type App struct {
	api   Backend
	mu    sync.Mutex
	state State
}

func NewApp(api Backend) *App {
	return &App{
		api:   api,
		state: State{Loading: true},
	}
}

// State returns a copy of the current state
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.state
	s.Posts = append([]Post{}, a.state.Posts...)
	return s
}

func (a *App) SetDraft(title, content string) {
	a.mu.Lock()
	a.state.Title = title
	a.state.Content = content
	a.mu.Unlock()
}

// SetEditDraft changes the edit inputs. Ignored while nothing is edited or a save is running
func (a *App) SetEditDraft(title, content string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.EditingID == "" || a.state.IsSaving {
		return
	}
	a.state.EditTitle = title
	a.state.EditContent = content
}

// FetchPosts replaces the list with what the API has. The old list is kept on error
func (a *App) FetchPosts(ctx context.Context) error {
	posts, err := a.api.List(ctx)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Loading = false
	if err != nil {
		log.Printf("Failed to fetch posts: %v", err)
		return err
	}
	if posts == nil {
		posts = []Post{}
	}
	a.state.Posts = posts
	return nil
}

func (a *App) AddPost(ctx context.Context) error {
	a.mu.Lock()
	title, content := a.state.Title, a.state.Content
	if title == "" || content == "" || a.state.IsAdding {
		a.mu.Unlock()
		return nil
	}
	a.state.IsAdding = true
	a.mu.Unlock()
	defer a.mutate(func(s *State) { s.IsAdding = false })

	if _, err := a.api.Create(ctx, title, content); err != nil {
		log.Printf("Failed to add post: %v", err)
		return err
	}
	a.mutate(func(s *State) {
		s.Title = ""
		s.Content = ""
	})
	return a.FetchPosts(ctx)
}

func (a *App) DeletePost(ctx context.Context, id string) error {
	a.mu.Lock()
	if id == "" || a.state.DeletingID == id {
		a.mu.Unlock()
		return nil
	}
	a.state.DeletingID = id
	a.mu.Unlock()
	defer a.mutate(func(s *State) { s.DeletingID = "" })

	if err := a.api.Delete(ctx, id); err != nil {
		log.Printf("Failed to delete post: %v", err)
		return err
	}
	return a.FetchPosts(ctx)
}

// StartEdit puts post id into edit mode, dropping any other unsaved edit.
// Returns false if the post is unknown or editing is blocked by a running save or delete
func (a *App) StartEdit(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.IsSaving || a.state.DeletingID == id {
		return false
	}
	for _, p := range a.state.Posts {
		if p.ID == id {
			a.state.EditingID = p.ID
			a.state.EditTitle = p.Title
			a.state.EditContent = p.Content
			return true
		}
	}
	return false
}

func (a *App) SaveEdit(ctx context.Context) error {
	a.mu.Lock()
	id, title, content := a.state.EditingID, a.state.EditTitle, a.state.EditContent
	if id == "" || title == "" || content == "" || a.state.IsSaving {
		a.mu.Unlock()
		return nil
	}
	a.state.IsSaving = true
	a.mu.Unlock()
	defer a.mutate(func(s *State) { s.IsSaving = false })

	if _, err := a.api.Update(ctx, id, title, content); err != nil {
		log.Printf("Failed to update post: %v", err)
		return err
	}
	a.mutate(resetEdit)
	return a.FetchPosts(ctx)
}

func (a *App) CancelEdit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.IsSaving {
		return
	}
	resetEdit(&a.state)
}

func (a *App) mutate(f func(s *State)) {
	a.mu.Lock()
	f(&a.state)
	a.mu.Unlock()
}

func resetEdit(s *State) {
	s.EditingID = ""
	s.EditTitle = ""
	s.EditContent = ""
}

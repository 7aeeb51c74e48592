package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/looplab/fsm"

	"github.com/CrestNiraj12/postboard/domain"
)

// Authoring surface states and events.
const (
	StateClosed = "closed"
	StateOpen   = "open"

	eventOpen      = "open"
	eventCancel    = "cancel"
	eventSubmitted = "submitted"
)

// State is a read-only snapshot of the controller.
type State struct {
	Posts         []domain.Post
	AuthoringOpen bool
	Draft         domain.Draft
	RefreshErr    error // Last refresh failure; nil once a refresh succeeds
}

// Controller owns the displayed posts and the authoring surface, and
// sequences writes against the store. Safe for use from Bubble Tea commands
// running on other goroutines.
type Controller struct {
	store  PostStore
	logger *slog.Logger

	mu         sync.RWMutex
	posts      []domain.Post
	draft      domain.Draft
	refreshErr error
	authoring  *fsm.FSM

	obsMu     sync.Mutex
	observers map[int]func(State)
	nextObs   int
}

// NewController creates a controller with an empty post list and the
// authoring surface closed.
func NewController(store PostStore, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		store:     store,
		logger:    logger,
		observers: make(map[int]func(State)),
	}
	c.authoring = fsm.NewFSM(
		StateClosed,
		fsm.Events{
			{Name: eventOpen, Src: []string{StateClosed}, Dst: StateOpen},
			{Name: eventCancel, Src: []string{StateOpen}, Dst: StateClosed},
			{Name: eventSubmitted, Src: []string{StateOpen}, Dst: StateClosed},
		},
		fsm.Callbacks{
			// A fresh draft on open, discarded on close. Runs under c.mu.
			"enter_state": func(_ context.Context, e *fsm.Event) {
				c.draft = domain.Draft{}
				c.logger.Debug("authoring transition", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
	return c
}

// State returns a snapshot. The posts slice is shared but never mutated;
// refresh swaps in a new one.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{
		Posts:         c.posts,
		AuthoringOpen: c.authoring.Is(StateOpen),
		Draft:         c.draft,
		RefreshErr:    c.refreshErr,
	}
}

// Subscribe registers fn to run after every state change. The returned
// func removes it.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.obsMu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.obsMu.Unlock()

	return func() {
		c.obsMu.Lock()
		delete(c.observers, id)
		c.obsMu.Unlock()
	}
}

// Refresh replaces the post list with a fresh fetch. On failure the current
// posts stay in place and the error is recorded in State.RefreshErr.
func (c *Controller) Refresh(ctx context.Context) error {
	posts, err := c.store.List(ctx)

	c.mu.Lock()
	if err != nil {
		c.refreshErr = err
	} else {
		c.posts = posts
		c.refreshErr = nil
	}
	c.mu.Unlock()
	c.notify()

	if err != nil {
		c.logger.Error("fetching posts failed", "error", err)
		return fmt.Errorf("refreshing posts: %w", err)
	}
	c.logger.Debug("posts refreshed", "count", len(posts))
	return nil
}

// OpenAuthoring shows the authoring surface with an empty draft.
func (c *Controller) OpenAuthoring() {
	c.transition(eventOpen)
}

// CloseAuthoring hides the authoring surface and discards the draft.
func (c *Controller) CloseAuthoring() {
	c.transition(eventCancel)
}

// UpdateDraft sets one draft field.
func (c *Controller) UpdateDraft(field domain.Field, value string) error {
	c.mu.Lock()
	if !c.authoring.Is(StateOpen) {
		c.mu.Unlock()
		return domain.ErrAuthoringClosed
	}
	if c.draft.Get(field) == value {
		c.mu.Unlock()
		return nil
	}
	c.draft = c.draft.Set(field, value)
	c.mu.Unlock()
	c.notify()
	return nil
}

// SubmitPost creates the post, then closes the authoring surface and
// refreshes. The refresh is only issued after the create resolves. A failed
// create leaves the surface open with the draft intact; a failed refresh is
// recorded in State.RefreshErr and does not fail the submit.
//
// Concurrent submits are not serialized here.
func (c *Controller) SubmitPost(ctx context.Context, p domain.Payload) error {
	if _, err := c.store.Create(ctx, p.Title, p.Body, p.Author); err != nil {
		c.logger.Error("creating post failed", "title", p.Title, "author", p.Author, "error", err)
		return fmt.Errorf("creating post: %w", err)
	}
	c.logger.Info("post created", "title", p.Title, "author", p.Author)

	c.transition(eventSubmitted)

	// Already logged and recorded by Refresh.
	_ = c.Refresh(ctx)
	return nil
}

func (c *Controller) transition(event string) {
	c.mu.Lock()
	if !c.authoring.Can(event) {
		c.mu.Unlock()
		return
	}
	err := c.authoring.Event(context.Background(), event)
	c.mu.Unlock()
	if err != nil {
		c.logger.Warn("authoring transition rejected", "event", event, "error", err)
		return
	}
	c.notify()
}

func (c *Controller) notify() {
	c.obsMu.Lock()
	fns := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.obsMu.Unlock()

	if len(fns) == 0 {
		return
	}
	s := c.State()
	for _, fn := range fns {
		fn(s)
	}
}

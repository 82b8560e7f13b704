package directory

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Jishaan-07/Employee-managment/internal/contacts"
)

// Remote is the contacts resource as seen by the controller.
type Remote interface {
	List(ctx context.Context) ([]contacts.Employee, error)
	Create(ctx context.Context, emp contacts.Employee) (contacts.Employee, error)
	Update(ctx context.Context, id string, emp contacts.Employee) error
	Delete(ctx context.Context, id string) error
}

// Pending resolves once a remote call has finished and its outcome has been
// applied to the controller state.
type Pending struct {
	done chan struct{}
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) resolve(err error) {
	p.err = err
	close(p.done)
}

// Done is closed when the outcome has been applied.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err returns the remote error. Only meaningful after Done is closed.
func (p *Pending) Err() error {
	return p.err
}

// Wait blocks until the outcome is applied or ctx ends. Giving up does not
// cancel the remote call.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Controller owns one directory state. A single loop goroutine applies every
// operation and every remote completion, in arrival order.
type Controller struct {
	remote   Remote
	logger   *slog.Logger
	ops      chan func(*state)
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	lastUsed atomic.Int64
	clock    func() time.Time
	initial  *Pending
}

// NewController starts the controller loop. Call Load to populate it.
func NewController(remote Remote, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		remote: remote,
		logger: logger,
		ops:    make(chan func(*state)),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		clock:  time.Now,
	}
	c.touch()
	go c.run()
	return c
}

func (c *Controller) run() {
	st := newState()
	defer close(c.done)
	for {
		select {
		case fn := <-c.ops:
			fn(&st)
		case <-c.stop:
			return
		}
	}
}

// Stop terminates the loop. Remote calls already in flight still run to
// completion; their outcomes are discarded.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	<-c.done
}

// Initial returns the initial load started by a Registry, or nil.
func (c *Controller) Initial() *Pending {
	return c.initial
}

// LastUsed reports when the controller last received an operation.
func (c *Controller) LastUsed() time.Time {
	return time.Unix(0, c.lastUsed.Load())
}

func (c *Controller) touch() {
	c.lastUsed.Store(c.clock().UnixNano())
}

// post hands fn to the loop without waiting for it to run.
func (c *Controller) post(fn func(*state)) bool {
	select {
	case c.ops <- fn:
		return true
	case <-c.done:
		return false
	}
}

// call runs fn on the loop and waits for its result.
func (c *Controller) call(fn func(*state) error) error {
	c.touch()
	result := make(chan error, 1)
	if !c.post(func(s *state) { result <- fn(s) }) {
		return ErrStopped
	}
	return <-result
}

// spawn runs a remote call off the loop and applies its completion on the loop.
// The call is detached from ctx cancellation.
func (c *Controller) spawn(ctx context.Context, p *Pending, call func(context.Context) (func(*state), error)) {
	select {
	case <-c.done:
		p.resolve(ErrStopped)
		return
	default:
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		apply, err := call(ctx)
		ok := c.post(func(s *state) {
			if apply != nil {
				apply(s)
			}
			p.resolve(err)
		})
		if !ok {
			p.resolve(ErrStopped)
		}
	}()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := c.call(func(s *state) error {
		snap = s.snapshot()
		return nil
	})
	return snap, err
}

// Load reads the full remote collection and replaces the local one. Failures are
// logged and leave the collection as it was.
func (c *Controller) Load(ctx context.Context) *Pending {
	p := newPending()
	c.touch()
	c.spawn(ctx, p, func(ctx context.Context) (func(*state), error) {
		employees, err := c.remote.List(ctx)
		if err != nil {
			c.logger.Error("fetch employees", slog.Any("error", err))
			return func(s *state) { s.loaded = true }, err
		}
		return func(s *state) {
			s.employees = employees
			s.loaded = true
		}, nil
	})
	return p
}

// BeginCreate switches to create mode with a default draft and opens the editor.
func (c *Controller) BeginCreate() error {
	return c.call(func(s *state) error {
		s.clearTarget()
		s.draft = EmptyDraft()
		s.open = true
		return nil
	})
}

// BeginEdit switches to edit mode for rec and opens the editor.
func (c *Controller) BeginEdit(rec contacts.Employee) error {
	return c.call(func(s *state) error {
		s.target = rec.ID
		s.hasTarget = true
		s.draft = rec
		s.open = true
		return nil
	})
}

// ChangeField sets one draft field. Values are not validated.
func (c *Controller) ChangeField(field Field, value string) error {
	return c.call(func(s *state) error {
		return s.setField(field, value)
	})
}

// Submit writes the draft to the remote resource: an update of the edit target
// in edit mode, a create otherwise. Target and draft are captured now.
func (c *Controller) Submit(ctx context.Context) *Pending {
	p := newPending()
	err := c.call(func(s *state) error {
		draft := s.draft
		if s.hasTarget {
			c.submitUpdate(ctx, p, s.target, draft)
			return nil
		}
		c.submitCreate(ctx, p, draft)
		return nil
	})
	if err != nil {
		p.resolve(err)
	}
	return p
}

func (c *Controller) submitUpdate(ctx context.Context, p *Pending, id string, draft contacts.Employee) {
	c.spawn(ctx, p, func(ctx context.Context) (func(*state), error) {
		if err := c.remote.Update(ctx, id, draft); err != nil {
			c.logger.Error("update employee", slog.String("id", id), slog.Any("error", err))
			return nil, err
		}
		return func(s *state) {
			s.replace(id, draft)
			s.open = false
			s.clearTarget()
		}, nil
	})
}

func (c *Controller) submitCreate(ctx context.Context, p *Pending, draft contacts.Employee) {
	c.spawn(ctx, p, func(ctx context.Context) (func(*state), error) {
		created, err := c.remote.Create(ctx, draft)
		if err != nil {
			c.logger.Error("add employee", slog.Any("error", err))
			return nil, err
		}
		return func(s *state) {
			s.employees = append(s.employees, created)
			s.draft = EmptyDraft()
		}, nil
	})
}

// Delete removes the record keyed by id remotely, then every local entry with it.
func (c *Controller) Delete(ctx context.Context, id string) *Pending {
	p := newPending()
	c.touch()
	c.spawn(ctx, p, func(ctx context.Context) (func(*state), error) {
		if err := c.remote.Delete(ctx, id); err != nil {
			c.logger.Error("delete employee", slog.String("id", id), slog.Any("error", err))
			return nil, err
		}
		return func(s *state) { s.remove(id) }, nil
	})
	return p
}

// Clear resets the draft and leaves edit mode. The editor stays as it is.
func (c *Controller) Clear() error {
	return c.call(func(s *state) error {
		s.draft = EmptyDraft()
		s.clearTarget()
		return nil
	})
}

// Close hides the editor and leaves edit mode. The draft is kept.
func (c *Controller) Close() error {
	return c.call(func(s *state) error {
		s.open = false
		s.clearTarget()
		return nil
	})
}

package share

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/access"
	"github.com/hmalik/clipstash/internal/clipboard"
	"github.com/hmalik/clipstash/internal/product"
	"github.com/hmalik/clipstash/internal/realtime"
	"github.com/hmalik/clipstash/internal/user"
)

// Common errors
var (
	ErrShareNotFound = errors.New("share not found")
	ErrAccessDenied  = errors.New("not authorized to manage shares on this entry")
	ErrInvalidLevel  = errors.New("level must be read or write")
	ErrSelfShare     = errors.New("cannot share an entry with its creator")
)

// Service handles share business logic. It mutates the share grants
// embedded in clipboard entries through the clipboard repository.
type Service struct {
	entries  *clipboard.Repository
	products *product.Service
	users    *user.Repository
	hub      *realtime.Hub
}

// NewService creates a new share service
func NewService(entries *clipboard.Repository, products *product.Service, users *user.Repository, hub *realtime.Hub) *Service {
	return &Service{entries: entries, products: products, users: users, hub: hub}
}

// shareLevel validates a requested grant level. Shares top out at write;
// admin is a product-level concept.
func shareLevel(s string) (string, error) {
	lvl := access.ParseLevel(s)
	if lvl != access.LevelRead && lvl != access.LevelWrite {
		return "", ErrInvalidLevel
	}
	return lvl.String(), nil
}

// Create shares an entry with a user. Idempotent: re-sharing updates the
// existing grant's level and timestamp instead of duplicating it.
func (s *Service) Create(ctx context.Context, principalID primitive.ObjectID, req *CreateShareRequest) (*clipboard.Entry, error) {
	level, err := shareLevel(req.Level)
	if err != nil {
		return nil, err
	}
	entryID, err := primitive.ObjectIDFromHex(req.EntryID)
	if err != nil {
		return nil, clipboard.ErrEntryNotFound
	}
	targetID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, user.ErrUserNotFound
	}

	e, err := s.requireManage(ctx, principalID, entryID)
	if err != nil {
		return nil, err
	}
	if targetID == e.CreatedBy {
		return nil, ErrSelfShare
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil || !target.Active {
		return nil, user.ErrUserNotFound
	}

	updated := e.ShareWith(targetID, level, time.Now().UTC())
	if err := s.entries.Save(ctx, e); err != nil {
		return nil, err
	}

	action := realtime.ActionShared
	if updated {
		action = realtime.ActionShareUpdated
	}
	s.publish(action, e)
	return e, nil
}

// Update changes the level of an existing grant
func (s *Service) Update(ctx context.Context, principalID, entryID, targetID primitive.ObjectID, req *UpdateShareRequest) (*clipboard.Entry, error) {
	level, err := shareLevel(req.Level)
	if err != nil {
		return nil, err
	}

	e, err := s.requireManage(ctx, principalID, entryID)
	if err != nil {
		return nil, err
	}
	if e.Grant(targetID) == nil {
		return nil, ErrShareNotFound
	}

	e.ShareWith(targetID, level, time.Now().UTC())
	if err := s.entries.Save(ctx, e); err != nil {
		return nil, err
	}

	s.publish(realtime.ActionShareUpdated, e)
	return e, nil
}

// Remove revokes a grant
func (s *Service) Remove(ctx context.Context, principalID, entryID, targetID primitive.ObjectID) error {
	e, err := s.requireManage(ctx, principalID, entryID)
	if err != nil {
		return err
	}
	if !e.Unshare(targetID) {
		return ErrShareNotFound
	}

	if err := s.entries.Save(ctx, e); err != nil {
		return err
	}

	s.hub.Publish(e.ProductID.Hex(), realtime.Event{
		Action:    realtime.ActionShareRemoved,
		ProductID: e.ProductID.Hex(),
		EntryID:   e.ID.Hex(),
	})
	return nil
}

// Received lists entries shared with the principal, limited to products
// the principal can still read. Losing product access hides the grants
// the same way it hides single-record reads.
func (s *Service) Received(ctx context.Context, principalID primitive.ObjectID, page, perPage int) ([]*clipboard.Entry, int, error) {
	ids, err := s.products.ReadableIDs(ctx, principalID)
	if err != nil {
		return nil, 0, err
	}
	return s.entries.ListSharedWith(ctx, principalID, ids, perPage, (page-1)*perPage)
}

// Sent lists entries the principal created and shared, under the same
// product scoping as Received.
func (s *Service) Sent(ctx context.Context, principalID primitive.ObjectID, page, perPage int) ([]*clipboard.Entry, int, error) {
	ids, err := s.products.ReadableIDs(ctx, principalID)
	if err != nil {
		return nil, 0, err
	}
	return s.entries.ListSharedBy(ctx, principalID, ids, perPage, (page-1)*perPage)
}

// requireManage loads the entry and checks the principal may manage its
// shares: creator or product admin. Invisible entries read as not found.
func (s *Service) requireManage(ctx context.Context, principalID, entryID primitive.ObjectID) (*clipboard.Entry, error) {
	e, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if e == nil || e.Archived || e.Expired(time.Now().UTC()) {
		return nil, clipboard.ErrEntryNotFound
	}

	if e.CreatedBy == principalID {
		return e, nil
	}

	_, d, err := s.products.Evaluate(ctx, principalID, e.ProductID, access.LevelAdmin)
	if err != nil || !d.Allowed {
		if d.Reason == access.ReasonInsufficient {
			return nil, ErrAccessDenied
		}
		return nil, clipboard.ErrEntryNotFound
	}
	return e, nil
}

func (s *Service) publish(action string, e *clipboard.Entry) {
	s.hub.Publish(e.ProductID.Hex(), realtime.Event{
		Action:    action,
		ProductID: e.ProductID.Hex(),
		EntryID:   e.ID.Hex(),
		Entry:     e.ToResponse(""),
	})
}

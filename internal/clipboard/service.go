package clipboard

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/access"
	"github.com/hmalik/clipstash/internal/product"
	"github.com/hmalik/clipstash/internal/realtime"
)

// Common errors
var (
	ErrEntryNotFound = errors.New("clipboard entry not found")
	ErrAccessDenied  = errors.New("not authorized to perform this action")
	ErrInvalidType   = errors.New("type must be one of text, image, file, link")
	ErrEmptyContent  = errors.New("content must not be empty")
	ErrBulkTooLarge  = errors.New("bulk request exceeds the item limit")
	ErrInvalidAction = errors.New("bulk action must be one of create, delete, tag")
)

const maxBulkItems = 50

// Service handles clipboard business logic
type Service struct {
	repo     *Repository
	products *product.Service
	hub      *realtime.Hub
}

// NewService creates a new clipboard service
func NewService(repo *Repository, products *product.Service, hub *realtime.Hub) *Service {
	return &Service{repo: repo, products: products, hub: hub}
}

// normalizeMetadata keeps only the metadata branch matching the type so
// the tagged union stays exhaustive for validation and access logic.
func normalizeMetadata(t EntryType, m Metadata) Metadata {
	out := Metadata{}
	switch t {
	case TypeText:
		out.Text = m.Text
	case TypeImage:
		out.Image = m.Image
	case TypeFile:
		out.File = m.File
	case TypeLink:
		out.Link = m.Link
	}
	return out
}

// Create submits a new entry into a product. Requires write access to the
// product; read-level members can see entries but not add them.
func (s *Service) Create(ctx context.Context, principalID primitive.ObjectID, req *CreateEntryRequest) (*Entry, error) {
	if !ValidType(req.Type) {
		return nil, ErrInvalidType
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, product.ErrProductNotFound
	}

	if err := s.requireProduct(ctx, principalID, productID, access.LevelWrite); err != nil {
		return nil, err
	}

	e := &Entry{
		Content:   req.Content,
		Type:      req.Type,
		Metadata:  normalizeMetadata(req.Type, req.Metadata),
		ProductID: productID,
		CreatedBy: principalID,
		Tags:      normalizeTags(req.Tags),
		IsPublic:  req.IsPublic,
	}
	if req.ExpiresInHours > 0 {
		exp := time.Now().UTC().Add(time.Duration(req.ExpiresInHours) * time.Hour)
		e.ExpiresAt = &exp
	}

	e, err = s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	s.publish(realtime.ActionUpdated, e, principalID)
	return e, nil
}

// List retrieves visible entries in a product
func (s *Service) List(ctx context.Context, principalID, productID primitive.ObjectID, page, perPage int) ([]*Entry, int, error) {
	if err := s.requireProduct(ctx, principalID, productID, access.LevelRead); err != nil {
		return nil, 0, err
	}
	page, perPage = normalizePaging(page, perPage)
	return s.repo.ListVisible(ctx, principalID, productID, perPage, (page-1)*perPage)
}

// Search retrieves visible entries matching the filter set
func (s *Service) Search(ctx context.Context, principalID primitive.ObjectID, req *SearchRequest) ([]*Entry, int, error) {
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, 0, product.ErrProductNotFound
	}
	if err := s.requireProduct(ctx, principalID, productID, access.LevelRead); err != nil {
		return nil, 0, err
	}
	page, perPage := normalizePaging(req.Page, req.PerPage)
	return s.repo.Search(ctx, principalID, productID, req, perPage, (page-1)*perPage)
}

// GetByID retrieves a single entry the principal may read. Inaccessible
// and absent entries are indistinguishable.
func (s *Service) GetByID(ctx context.Context, principalID, id primitive.ObjectID) (*Entry, error) {
	e, _, err := s.fetch(ctx, principalID, id, access.LevelRead)
	return e, err
}

// Update mutates an entry. Requires write: creator, a write-level share
// grantee, or a product admin.
func (s *Service) Update(ctx context.Context, principalID, id primitive.ObjectID, req *UpdateEntryRequest) (*Entry, error) {
	e, _, err := s.fetch(ctx, principalID, id, access.LevelWrite)
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, ErrEmptyContent
		}
		e.Content = *req.Content
	}
	if req.Metadata != nil {
		e.Metadata = normalizeMetadata(e.Type, *req.Metadata)
	}
	if req.Tags != nil {
		e.Tags = normalizeTags(*req.Tags)
	}
	if req.IsPublic != nil {
		e.IsPublic = *req.IsPublic
	}

	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}

	s.publish(realtime.ActionUpdated, e, principalID)
	return e, nil
}

// Delete removes an entry. Creator or product admin only.
func (s *Service) Delete(ctx context.Context, principalID, id primitive.ObjectID) error {
	e, productLevel, err := s.fetch(ctx, principalID, id, access.LevelRead)
	if err != nil {
		return err
	}
	if e.CreatedBy != principalID && productLevel < access.LevelAdmin {
		return ErrAccessDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.Publish(e.ProductID.Hex(), realtime.Event{
		Action:    realtime.ActionUpdated,
		ProductID: e.ProductID.Hex(),
		EntryID:   e.ID.Hex(),
	})
	return nil
}

// ToggleFavorite flips the principal's favorite mark on a readable entry
func (s *Service) ToggleFavorite(ctx context.Context, principalID, id primitive.ObjectID) (*Entry, bool, error) {
	e, _, err := s.fetch(ctx, principalID, id, access.LevelRead)
	if err != nil {
		return nil, false, err
	}

	favorited := e.ToggleFavorite(principalID)
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, false, err
	}
	return e, favorited, nil
}

// Bulk applies one action across up to maxBulkItems items, reporting
// per-item outcomes instead of failing the batch.
func (s *Service) Bulk(ctx context.Context, principalID primitive.ObjectID, req *BulkRequest) ([]BulkItemResult, error) {
	switch req.Action {
	case "create":
		if len(req.Entries) > maxBulkItems {
			return nil, ErrBulkTooLarge
		}
		results := make([]BulkItemResult, 0, len(req.Entries))
		for i := range req.Entries {
			e, err := s.Create(ctx, principalID, &req.Entries[i])
			if err != nil {
				results = append(results, BulkItemResult{Error: err.Error()})
				continue
			}
			results = append(results, BulkItemResult{ID: e.ID.Hex()})
		}
		return results, nil

	case "delete":
		if len(req.IDs) > maxBulkItems {
			return nil, ErrBulkTooLarge
		}
		results := make([]BulkItemResult, 0, len(req.IDs))
		for _, idStr := range req.IDs {
			id, err := primitive.ObjectIDFromHex(idStr)
			if err != nil {
				results = append(results, BulkItemResult{ID: idStr, Error: ErrEntryNotFound.Error()})
				continue
			}
			if err := s.Delete(ctx, principalID, id); err != nil {
				results = append(results, BulkItemResult{ID: idStr, Error: err.Error()})
				continue
			}
			results = append(results, BulkItemResult{ID: idStr})
		}
		return results, nil

	case "tag":
		if len(req.IDs) > maxBulkItems {
			return nil, ErrBulkTooLarge
		}
		tags := normalizeTags(req.Tags)
		results := make([]BulkItemResult, 0, len(req.IDs))
		for _, idStr := range req.IDs {
			id, err := primitive.ObjectIDFromHex(idStr)
			if err != nil {
				results = append(results, BulkItemResult{ID: idStr, Error: ErrEntryNotFound.Error()})
				continue
			}
			merged := tags
			if e, _, err := s.fetch(ctx, principalID, id, access.LevelWrite); err == nil {
				merged = normalizeTags(append(e.Tags, tags...))
				e.Tags = merged
				if err := s.repo.Save(ctx, e); err == nil {
					results = append(results, BulkItemResult{ID: idStr})
					continue
				}
			}
			results = append(results, BulkItemResult{ID: idStr, Error: ErrEntryNotFound.Error()})
		}
		return results, nil

	default:
		return nil, ErrInvalidAction
	}
}

// fetch loads an entry, checks product access, then evaluates the entry
// itself at the requested level. Product admins act at admin level on all
// entries in their product. Expired entries are archived on first touch.
func (s *Service) fetch(ctx context.Context, principalID, id primitive.ObjectID, level access.Level) (*Entry, access.Level, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, access.LevelNone, err
	}
	if e == nil || e.Archived {
		return nil, access.LevelNone, ErrEntryNotFound
	}

	now := time.Now().UTC()
	if e.Expired(now) {
		e.Archived = true
		if err := s.repo.Save(ctx, e); err != nil {
			return nil, access.LevelNone, err
		}
		return nil, access.LevelNone, ErrEntryNotFound
	}

	_, productDecision, err := s.products.Evaluate(ctx, principalID, e.ProductID, access.LevelRead)
	if err != nil || !productDecision.Allowed {
		return nil, access.LevelNone, ErrEntryNotFound
	}

	if productDecision.Level >= access.LevelAdmin {
		return e, productDecision.Level, nil
	}

	d := access.Evaluate(principalID.Hex(), e.Resource(), level, now)
	if !d.Allowed {
		if d.Reason == access.ReasonInsufficient {
			return e, productDecision.Level, ErrAccessDenied
		}
		return nil, productDecision.Level, ErrEntryNotFound
	}
	return e, productDecision.Level, nil
}

func (s *Service) requireProduct(ctx context.Context, principalID, productID primitive.ObjectID, level access.Level) error {
	_, d, err := s.products.Evaluate(ctx, principalID, productID, level)
	if err != nil {
		return product.ErrProductNotFound
	}
	if !d.Allowed {
		if d.Reason == access.ReasonInsufficient {
			return ErrAccessDenied
		}
		return product.ErrProductNotFound
	}
	return nil
}

func (s *Service) publish(action string, e *Entry, viewerID primitive.ObjectID) {
	s.hub.Publish(e.ProductID.Hex(), realtime.Event{
		Action:    action,
		ProductID: e.ProductID.Hex(),
		EntryID:   e.ID.Hex(),
		Entry:     e.ToResponse(viewerID.Hex()),
	})
}

func normalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

// normalizeTags trims, lowercases and dedupes tags preserving order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

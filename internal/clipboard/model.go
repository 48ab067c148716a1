package clipboard

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/access"
)

// EntryType enumerates the clipboard content kinds
type EntryType string

const (
	TypeText  EntryType = "text"
	TypeImage EntryType = "image"
	TypeFile  EntryType = "file"
	TypeLink  EntryType = "link"
)

// ValidType reports whether t is a known entry type.
func ValidType(t EntryType) bool {
	switch t {
	case TypeText, TypeImage, TypeFile, TypeLink:
		return true
	}
	return false
}

// TextMeta describes a text entry
type TextMeta struct {
	Language  string `bson:"language,omitempty" json:"language,omitempty"`
	WordCount int    `bson:"word_count,omitempty" json:"word_count,omitempty"`
}

// ImageMeta describes an image entry
type ImageMeta struct {
	Width  int    `bson:"width,omitempty" json:"width,omitempty"`
	Height int    `bson:"height,omitempty" json:"height,omitempty"`
	Format string `bson:"format,omitempty" json:"format,omitempty"`
}

// FileMeta describes a file entry
type FileMeta struct {
	Filename string `bson:"filename,omitempty" json:"filename,omitempty"`
	Size     int64  `bson:"size,omitempty" json:"size,omitempty"`
	MimeType string `bson:"mime_type,omitempty" json:"mime_type,omitempty"`
}

// LinkMeta describes a link entry
type LinkMeta struct {
	Title  string `bson:"title,omitempty" json:"title,omitempty"`
	Domain string `bson:"domain,omitempty" json:"domain,omitempty"`
}

// Metadata is the tagged union of per-type metadata. Exactly the field
// matching the entry type is set; the rest stay nil.
type Metadata struct {
	Text  *TextMeta  `bson:"text,omitempty" json:"text,omitempty"`
	Image *ImageMeta `bson:"image,omitempty" json:"image,omitempty"`
	File  *FileMeta  `bson:"file,omitempty" json:"file,omitempty"`
	Link  *LinkMeta  `bson:"link,omitempty" json:"link,omitempty"`
}

// ShareGrant is an explicit per-user grant on an entry
type ShareGrant struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Level     string             `bson:"level" json:"level"`
	GrantedAt time.Time          `bson:"granted_at" json:"granted_at"`
}

// Entry represents a clipboard entry in a product workspace
type Entry struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Content     string               `bson:"content" json:"content"`
	Type        EntryType            `bson:"type" json:"type"`
	Metadata    Metadata             `bson:"metadata,omitempty" json:"metadata,omitempty"`
	ProductID   primitive.ObjectID   `bson:"product_id" json:"product_id"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Tags        []string             `bson:"tags" json:"tags"`
	IsPublic    bool                 `bson:"is_public" json:"is_public"`
	SharedWith  []ShareGrant         `bson:"shared_with" json:"shared_with"`
	FavoritedBy []primitive.ObjectID `bson:"favorited_by" json:"favorited_by"`
	ExpiresAt   *time.Time           `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	Archived    bool                 `bson:"archived" json:"archived"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

// Resource converts the entry to its access-control view. A public entry
// is readable by anyone holding product access regardless of SharedWith.
func (e *Entry) Resource() access.Resource {
	grants := make([]access.Grant, 0, len(e.SharedWith))
	for _, g := range e.SharedWith {
		grants = append(grants, access.Grant{
			UserID: g.UserID.Hex(),
			Level:  access.ParseLevel(g.Level),
			Active: true,
		})
	}
	return access.Resource{
		OwnerID: e.CreatedBy.Hex(),
		Public:  e.IsPublic,
		Grants:  grants,
	}
}

// Grant returns the share grant for userID, if any.
func (e *Entry) Grant(userID primitive.ObjectID) *ShareGrant {
	for i := range e.SharedWith {
		if e.SharedWith[i].UserID == userID {
			return &e.SharedWith[i]
		}
	}
	return nil
}

// ShareWith records a grant idempotently: sharing with the same user twice
// updates level and timestamp instead of appending a duplicate. Returns
// true when an existing grant was updated.
func (e *Entry) ShareWith(userID primitive.ObjectID, level string, now time.Time) bool {
	if g := e.Grant(userID); g != nil {
		g.Level = level
		g.GrantedAt = now
		return true
	}
	e.SharedWith = append(e.SharedWith, ShareGrant{UserID: userID, Level: level, GrantedAt: now})
	return false
}

// Unshare removes the grant for userID. Returns false when absent.
func (e *Entry) Unshare(userID primitive.ObjectID) bool {
	for i := range e.SharedWith {
		if e.SharedWith[i].UserID == userID {
			e.SharedWith = append(e.SharedWith[:i], e.SharedWith[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleFavorite flips userID's membership in the favorite set and
// reports whether the entry is now favorited by the user.
func (e *Entry) ToggleFavorite(userID primitive.ObjectID) bool {
	for i, f := range e.FavoritedBy {
		if f == userID {
			e.FavoritedBy = append(e.FavoritedBy[:i], e.FavoritedBy[i+1:]...)
			return false
		}
	}
	e.FavoritedBy = append(e.FavoritedBy, userID)
	return true
}

// Expired reports whether the entry's lifetime has passed.
func (e *Entry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}

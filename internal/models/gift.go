package models

import "time"

// GiftStatus represents the lifecycle status of a gift idea
type GiftStatus string

const (
	GiftStatusAvailable  GiftStatus = "available"
	GiftStatusClaimed    GiftStatus = "claimed"
	GiftStatusBought     GiftStatus = "bought"
	GiftStatusAlreadyHas GiftStatus = "already_has"
)

// statusRank orders statuses for list display: free gifts first, then
// in-progress ones, then the terminal states.
var statusRank = map[GiftStatus]int{
	GiftStatusAvailable:  1,
	GiftStatusClaimed:    2,
	GiftStatusBought:     3,
	GiftStatusAlreadyHas: 4,
}

// Rank returns the sort rank of the status. Unknown statuses sort last.
func (s GiftStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return len(statusRank) + 1
}

// Valid reports whether s is one of the known statuses.
func (s GiftStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether ordinary actors can still act on a gift in this
// status. Only an admin deletion removes a terminal gift.
func (s GiftStatus) Terminal() bool {
	return s == GiftStatusBought || s == GiftStatusAlreadyHas
}

// GiftCategory represents the fixed set of gift categories
type GiftCategory string

const (
	CategoryTech       GiftCategory = "tech"
	CategoryHome       GiftCategory = "home"
	CategoryHobby      GiftCategory = "hobby"
	CategoryFashion    GiftCategory = "fashion"
	CategoryExperience GiftCategory = "experience"
	CategoryOther      GiftCategory = "other"
)

// Categories returns all categories in menu display order.
func Categories() []GiftCategory {
	return []GiftCategory{
		CategoryTech, CategoryHome, CategoryHobby,
		CategoryFashion, CategoryExperience, CategoryOther,
	}
}

// Valid reports whether c is one of the known categories.
func (c GiftCategory) Valid() bool {
	switch c {
	case CategoryTech, CategoryHome, CategoryHobby,
		CategoryFashion, CategoryExperience, CategoryOther:
		return true
	}
	return false
}

// Label returns the human-readable menu label for the category.
func (c GiftCategory) Label() string {
	switch c {
	case CategoryTech:
		return "🖥 Tech"
	case CategoryHome:
		return "🏠 Home"
	case CategoryHobby:
		return "🎨 Hobby"
	case CategoryFashion:
		return "👔 Fashion"
	case CategoryExperience:
		return "🎭 Experiences"
	default:
		return "📦 Other"
	}
}

// Gift represents a proposed gift idea with its lifecycle status
type Gift struct {
	ID          int64        `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Price       *int         `json:"price" db:"price"`
	Category    GiftCategory `json:"category" db:"category"`
	Status      GiftStatus   `json:"status" db:"status"`
	AddedByID   int64        `json:"added_by_id" db:"added_by_id"`
	AddedByName string       `json:"added_by_name" db:"added_by_name"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`

	// Contributions is populated by detail queries, not stored on the row.
	Contributions []*Contribution `json:"contributions,omitempty"`
	// ViewerAmount carries the querying actor's own pledge when the gift
	// was fetched through a per-actor join.
	ViewerAmount *int `json:"viewer_amount,omitempty"`
}

// StatusEmoji returns the emoji shown next to the gift in lists.
func (g *Gift) StatusEmoji() string {
	switch g.Status {
	case GiftStatusClaimed:
		return "🟡"
	case GiftStatusBought:
		return "✅"
	case GiftStatusAlreadyHas:
		return "🚫"
	default:
		return "🟢"
	}
}

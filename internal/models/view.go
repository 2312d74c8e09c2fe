package models

// MediaKind selects which media element a card renders
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaImage MediaKind = "image"
	MediaNone  MediaKind = "none"
)

// Media is the media block at the top of a card
type Media struct {
	Kind MediaKind `json:"kind"`
	URL  string    `json:"url,omitempty"`
	Alt  string    `json:"alt,omitempty"`
}

// Card is a display-ready project card
type Card struct {
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Media           Media    `json:"media"`
	Team            string   `json:"team,omitempty"`
	MadeWith        string   `json:"made_with,omitempty"`
	Year            string   `json:"year,omitempty"`
	DescriptionHTML string   `json:"description_html,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// TagOption is one entry in the tag dropdown
type TagOption struct {
	Label    string `json:"label"`
	Value    string `json:"value"` // "" means no filter
	Selected bool   `json:"selected"`
}

// GridStatus describes what the projects container shows
type GridStatus string

const (
	GridCards GridStatus = "cards"
	GridEmpty GridStatus = "empty"
	GridError GridStatus = "error"
)

// Messages shown in place of cards
const (
	MessageEmpty = "No projects found."
	MessageError = "Error loading data."
)

// Grid is the full content of the projects container plus the dropdown
type Grid struct {
	Status   GridStatus  `json:"status"`
	Message  string      `json:"message,omitempty"`
	Cards    []Card      `json:"cards"`
	Filter   string      `json:"filter"`
	Label    string      `json:"label"`
	MenuOpen bool        `json:"menu_open"`
	Options  []TagOption `json:"options"`
}

package services

import (
	"dconn.dev/showcase/internal/models"
)

// DropdownState is the open/closed state of the tag filter
type DropdownState int

const (
	DropdownClosed DropdownState = iota
	DropdownOpen
)

func (s DropdownState) String() string {
	if s == DropdownOpen {
		return "open"
	}
	return "closed"
}

// ParseDropdownState maps a "menu" query value to a state. Anything but "open" is closed.
func ParseDropdownState(v string) DropdownState {
	if v == "open" {
		return DropdownOpen
	}
	return DropdownClosed
}

// TagDropdown is the tag filter widget: a label, an option list and an open flag
type TagDropdown struct {
	state          DropdownState
	selected       string
	showAllLabel   string
	preferredOrder []string
	options        []models.TagOption
}

// NewTagDropdown creates a closed dropdown with no selection
func NewTagDropdown(showAllLabel string, preferredOrder []string) *TagDropdown {
	return &TagDropdown{
		showAllLabel:   showAllLabel,
		preferredOrder: preferredOrder,
	}
}

// IsOpen reports whether the option list is shown
func (d *TagDropdown) IsOpen() bool {
	return d.state == DropdownOpen
}

// Selected returns the active filter value ("" for none)
func (d *TagDropdown) Selected() string {
	return d.selected
}

// Label is the text shown in the selected-value area
func (d *TagDropdown) Label() string {
	if d.selected == "" {
		return d.showAllLabel
	}
	return d.selected
}

// Options returns the last computed option list
func (d *TagDropdown) Options() []models.TagOption {
	return d.options
}

// Populate recomputes the options from valid records, marking the selection
func (d *TagDropdown) Populate(valid []models.Record) {
	d.options = BuildTagOptions(valid, d.selected, d.showAllLabel, d.preferredOrder)
}

// Toggle flips the widget. Opening recomputes options first.
func (d *TagDropdown) Toggle(valid []models.Record) {
	if d.state == DropdownOpen {
		d.state = DropdownClosed
		return
	}
	d.Populate(valid)
	d.state = DropdownOpen
}

// Open moves to the open state, recomputing options
func (d *TagDropdown) Open(valid []models.Record) {
	if d.state != DropdownOpen {
		d.Toggle(valid)
	}
}

// Select applies value as the filter, restyles the options and closes
func (d *TagDropdown) Select(value string) {
	d.selected = value
	for i := range d.options {
		d.options[i].Selected = d.options[i].Value == value
	}
	d.state = DropdownClosed
}

// BuildTagOptions lists present tags, preferred ones first then alphabetical,
// followed by the "show all" sentinel whose value is "".
func BuildTagOptions(valid []models.Record, selected, showAllLabel string, preferredOrder []string) []models.TagOption {
	present := distinctTags(valid)

	isPresent := make(map[string]bool, len(present))
	for _, t := range present {
		isPresent[t] = true
	}

	opts := make([]models.TagOption, 0, len(present)+1)
	placed := make(map[string]bool, len(present))
	for _, t := range preferredOrder {
		if isPresent[t] && !placed[t] {
			opts = append(opts, models.TagOption{Label: t, Value: t, Selected: t == selected})
			placed[t] = true
		}
	}
	for _, t := range present {
		if !placed[t] {
			opts = append(opts, models.TagOption{Label: t, Value: t, Selected: t == selected})
		}
	}

	return append(opts, models.TagOption{
		Label:    showAllLabel,
		Value:    "",
		Selected: selected == "",
	})
}

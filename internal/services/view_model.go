package services

import (
	"dconn.dev/showcase/internal/models"
)

// DescriptionRenderer turns a markdown description into safe HTML
type DescriptionRenderer interface {
	RenderDescription(markdown string) string
}

// ViewModel holds the record cache and the dropdown, whose selection is the
// active filter.
type ViewModel struct {
	result   LoadResult
	dropdown *TagDropdown
	desc     DescriptionRenderer
}

// ViewOptions configures a ViewModel
type ViewOptions struct {
	ShowAllLabel   string
	PreferredOrder []string
	Descriptions   DescriptionRenderer // optional
}

// NewViewModel creates a view over a load result with no filter and a closed dropdown
func NewViewModel(result LoadResult, opts ViewOptions) *ViewModel {
	return &ViewModel{
		result:   result,
		dropdown: NewTagDropdown(opts.ShowAllLabel, opts.PreferredOrder),
		desc:     opts.Descriptions,
	}
}

// Valid returns the records passing the name/active checks
func (vm *ViewModel) Valid() []models.Record {
	return ValidRecords(vm.result.Records)
}

// SelectTag applies a dropdown selection and closes the menu
func (vm *ViewModel) SelectTag(tag string) {
	vm.dropdown.Select(tag)
}

// OpenMenu opens the dropdown if it is closed
func (vm *ViewModel) OpenMenu() {
	vm.dropdown.Open(vm.Valid())
}

// Render rebuilds the whole grid from the record cache and filter.
// It is a pure function of that state; repeated calls give equal grids.
func (vm *ViewModel) Render() models.Grid {
	filter := vm.dropdown.Selected()
	grid := models.Grid{
		Filter:   filter,
		Label:    vm.dropdown.Label(),
		MenuOpen: vm.dropdown.IsOpen(),
	}

	valid := vm.Valid()
	vm.dropdown.Populate(valid)
	grid.Options = vm.dropdown.Options()

	switch vm.result.State {
	case LoadFailed:
		grid.Status = models.GridError
		grid.Message = models.MessageError
		return grid
	case LoadEmpty:
		grid.Status = models.GridEmpty
		grid.Message = models.MessageEmpty
		return grid
	}

	// slugs are assigned over the valid set so they match GetBySlug
	slugs := ProjectSlugs(valid)
	grid.Status = models.GridCards
	grid.Cards = []models.Card{}
	for i, r := range valid {
		if !MatchesFilter(r, filter) {
			continue
		}
		grid.Cards = append(grid.Cards, BuildCard(r, slugs[i], vm.desc))
	}
	return grid
}

// BuildCard maps a record to a card. Video wins over image; neither gives a placeholder.
func BuildCard(r models.Record, slug string, desc DescriptionRenderer) models.Card {
	name := r.ProjectName()
	card := models.Card{
		Slug:     slug,
		Name:     name,
		Team:     r.Team(),
		MadeWith: r.MadeWith(),
		Year:     r.Year(),
		Tags:     r.Tags(),
	}

	switch {
	case r.Video() != "":
		card.Media = models.Media{Kind: models.MediaVideo, URL: r.Video()}
	case r.Image() != "":
		card.Media = models.Media{Kind: models.MediaImage, URL: r.Image(), Alt: name}
	default:
		card.Media = models.Media{Kind: models.MediaNone}
	}

	if d := r.Description(); d != "" && desc != nil {
		card.DescriptionHTML = desc.RenderDescription(d)
	}
	return card
}

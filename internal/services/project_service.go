package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"dconn.dev/showcase/internal/models"
)

// ErrProjectNotFound is returned when no valid record matches a slug
var ErrProjectNotFound = errors.New("project not found")

// ProjectService holds the process-wide record cache.
// Handlers read it concurrently while the watcher replaces it.
type ProjectService struct {
	mu     sync.RWMutex
	result LoadResult
}

// NewProjectService creates a new ProjectService seeded with an initial load
func NewProjectService(initial LoadResult) *ProjectService {
	return &ProjectService{result: initial}
}

// Apply swaps in a new load result. A failed reload does not displace a
// previous successful one, so a half-written file never blanks the grid.
// It reports whether result was applied.
func (s *ProjectService) Apply(result LoadResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if result.State == LoadFailed && s.result.State != LoadFailed {
		return false
	}
	s.result = result
	return true
}

// Snapshot returns the current load result. Records must be treated as read-only.
func (s *ProjectService) Snapshot() LoadResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// GetAll returns all valid projects
func (s *ProjectService) GetAll() []models.Record {
	return ValidRecords(s.Snapshot().Records)
}

// GetBySlug returns a specific valid project by the slug ProjectSlugs assigns it
func (s *ProjectService) GetBySlug(slug string) (*models.Record, error) {
	valid := s.GetAll()
	for i, got := range ProjectSlugs(valid) {
		if got == slug {
			return &valid[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, slug)
}

// Tags returns the distinct tags of valid projects, sorted
func (s *ProjectService) Tags() []string {
	return distinctTags(s.GetAll())
}

// ValidRecords keeps records with a non-blank project name that are not inactive
func ValidRecords(records []models.Record) []models.Record {
	valid := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r.IsValid() {
			valid = append(valid, r)
		}
	}
	return valid
}

// MatchesFilter reports whether r's Tags contain tag exactly. An empty tag matches all.
func MatchesFilter(r models.Record, tag string) bool {
	return tag == "" || r.HasTag(tag)
}

// fallbackSlug stands in for names with no ASCII letters or digits
const fallbackSlug = "project"

// ProjectSlugs assigns each record a slug unique within records, in order.
// Repeats get "-2", "-3", ... so "C" and "C++" stay addressable.
func ProjectSlugs(records []models.Record) []string {
	slugs := make([]string, len(records))
	taken := make(map[string]bool, len(records))
	for i, r := range records {
		base := models.Slugify(r.ProjectName())
		if base == "" {
			base = fallbackSlug
		}
		slug := base
		for n := 2; taken[slug]; n++ {
			slug = base + "-" + strconv.Itoa(n)
		}
		taken[slug] = true
		slugs[i] = slug
	}
	return slugs
}

func distinctTags(records []models.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for _, t := range r.Tags() {
			if t == "" {
				continue
			}
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dconn.dev/showcase/internal/models"
)

const sampleData = `{
  "records": [
    {"fields": {"Project": "Loom", "Tags": ["Materials", "Gestures"], "Video": "media/loom.mp4", "Team": ["Ana", "Bo"], "Made with": ["Arduino"]}, "active": true},
    {"fields": {"project": "Prism", "Tags": ["Optics"], "Video": "", "Image": "media/prism.jpg", "Year": 2021}},
    {"fields": {"Project": "Hum", "Tags": ["Sounds", "Gestures"]}},
    {"fields": {"Project": "   ", "Tags": ["Ghost"]}},
    {"fields": {"Project": "Retired", "Tags": ["Screens"]}, "active": false},
    {"fields": {"Tags": ["Nameless"]}}
  ]
}`

func decodeRecords(t *testing.T, data string) []models.Record {
	t.Helper()
	var set models.RecordSet
	require.NoError(t, json.Unmarshal([]byte(data), &set))
	return set.Records
}

func names(cards []models.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Name)
	}
	return out
}

func newVM(records []models.Record) *ViewModel {
	state := LoadOK
	if len(records) == 0 {
		state = LoadEmpty
	}
	return NewViewModel(LoadResult{State: state, Records: records}, ViewOptions{ShowAllLabel: "Show all"})
}

func TestValidRecords_DropsBlankAndInactive(t *testing.T) {
	valid := ValidRecords(decodeRecords(t, sampleData))

	var got []string
	for _, r := range valid {
		got = append(got, r.ProjectName())
	}
	if diff := cmp.Diff([]string{"Loom", "Prism", "Hum"}, got); diff != "" {
		t.Fatalf("valid records mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchesFilter(t *testing.T) {
	valid := ValidRecords(decodeRecords(t, sampleData))

	tests := []struct {
		tag  string
		want []string
	}{
		{"", []string{"Loom", "Prism", "Hum"}},
		{"Gestures", []string{"Loom", "Hum"}},
		{"Optics", []string{"Prism"}},
		{"gestures", []string{}},
		{"Screens", []string{}}, // only on an inactive record
		{"Ghost", []string{}},   // only on a blank-named record
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := []string{}
			for _, r := range valid {
				if MatchesFilter(r, tt.tag) {
					got = append(got, r.ProjectName())
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestViewModel_SingleRecordScenario(t *testing.T) {
	records := decodeRecords(t, `{"records":[{"fields":{"Project":"A","Tags":["X"]},"active":true}]}`)
	vm := newVM(records)

	grid := vm.Render()
	assert.Equal(t, models.GridCards, grid.Status)
	assert.Equal(t, []string{"A"}, names(grid.Cards))

	vm.SelectTag("X")
	assert.Equal(t, []string{"A"}, names(vm.Render().Cards))

	vm.SelectTag("Y")
	assert.Empty(t, vm.Render().Cards)
}

func TestViewModel_EmptyRecords(t *testing.T) {
	vm := newVM(decodeRecords(t, `{"records":[]}`))

	grid := vm.Render()
	assert.Equal(t, models.GridEmpty, grid.Status)
	assert.Equal(t, "No projects found.", grid.Message)
	assert.Empty(t, grid.Cards)
	require.Len(t, grid.Options, 1)
	assert.Equal(t, "", grid.Options[0].Value)
}

func TestViewModel_LoadFailed(t *testing.T) {
	vm := NewViewModel(LoadResult{State: LoadFailed, Err: errors.New("boom")}, ViewOptions{ShowAllLabel: "Show all"})

	grid := vm.Render()
	assert.Equal(t, models.GridError, grid.Status)
	assert.Equal(t, "Error loading data.", grid.Message)
}

func TestViewModel_RenderIsIdempotent(t *testing.T) {
	vm := newVM(decodeRecords(t, sampleData))
	vm.SelectTag("Gestures")

	first := vm.Render()
	second := vm.Render()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("re-render changed output (-first +second):\n%s", diff)
	}
}

func TestBuildCard_Media(t *testing.T) {
	records := decodeRecords(t, `{"records":[
		{"fields":{"Project":"V","Video":"v.mp4","Image":"v.jpg"}},
		{"fields":{"Project":"I","Video":"  ","Image":"i.jpg"}},
		{"fields":{"Project":"N","Image":""}}
	]}`)

	v := BuildCard(records[0], "v", nil)
	assert.Equal(t, models.Media{Kind: models.MediaVideo, URL: "v.mp4"}, v.Media)

	i := BuildCard(records[1], "i", nil)
	assert.Equal(t, models.Media{Kind: models.MediaImage, URL: "i.jpg", Alt: "I"}, i.Media)

	n := BuildCard(records[2], "n", nil)
	assert.Equal(t, models.MediaNone, n.Media.Kind)
}

type upperDesc struct{}

func (upperDesc) RenderDescription(md string) string { return "<p>" + strings.ToUpper(md) + "</p>" }

func TestBuildCard_Meta(t *testing.T) {
	records := decodeRecords(t, sampleData)

	loom := BuildCard(records[0], "loom", nil)
	assert.Equal(t, "loom", loom.Slug)
	assert.Equal(t, "Ana, Bo", loom.Team)
	assert.Equal(t, "Arduino", loom.MadeWith)

	prism := BuildCard(records[1], "prism", nil)
	assert.Equal(t, "Prism", prism.Name)
	assert.Equal(t, "2021", prism.Year)
	assert.Empty(t, prism.MadeWith)

	rec := models.Record{Fields: models.Fields{"Project": "D", "Description": "hi"}}
	assert.Equal(t, "<p>HI</p>", BuildCard(rec, "d", upperDesc{}).DescriptionHTML)
	assert.Empty(t, BuildCard(rec, "d", nil).DescriptionHTML)
}

func TestBuildTagOptions(t *testing.T) {
	valid := ValidRecords(decodeRecords(t, sampleData))

	t.Run("alphabetical with trailing sentinel", func(t *testing.T) {
		got := BuildTagOptions(valid, "", "Show all", nil)
		want := []models.TagOption{
			{Label: "Gestures", Value: "Gestures"},
			{Label: "Materials", Value: "Materials"},
			{Label: "Optics", Value: "Optics"},
			{Label: "Sounds", Value: "Sounds"},
			{Label: "Show all", Value: "", Selected: true},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("options mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("preferred order first, absent preferred tags skipped", func(t *testing.T) {
		got := BuildTagOptions(valid, "Sounds", "Experiments", []string{"Sounds", "Screens", "Gestures"})
		var labels []string
		for _, o := range got {
			labels = append(labels, o.Label)
		}
		assert.Equal(t, []string{"Sounds", "Gestures", "Materials", "Optics", "Experiments"}, labels)
		assert.True(t, got[0].Selected)
		assert.False(t, got[len(got)-1].Selected)
	})

	t.Run("no records still offers the sentinel", func(t *testing.T) {
		got := BuildTagOptions(nil, "", "Show all", nil)
		assert.Equal(t, []models.TagOption{{Label: "Show all", Value: "", Selected: true}}, got)
	})
}

func TestTagDropdown_StateMachine(t *testing.T) {
	valid := ValidRecords(decodeRecords(t, sampleData))
	d := NewTagDropdown("Show all", nil)

	assert.False(t, d.IsOpen())
	assert.Empty(t, d.Options())
	assert.Equal(t, "Show all", d.Label())

	d.Toggle(valid)
	assert.True(t, d.IsOpen())
	assert.Len(t, d.Options(), 5)

	d.Toggle(valid)
	assert.False(t, d.IsOpen())

	d.Toggle(valid)
	d.Select("Optics")
	assert.False(t, d.IsOpen())
	assert.Equal(t, "Optics", d.Label())
	for _, o := range d.Options() {
		assert.Equal(t, o.Value == "Optics", o.Selected, o.Label)
	}

	d.Open(valid)
	d.Open(valid)
	assert.True(t, d.IsOpen())

	d.Select("")
	assert.Equal(t, "Show all", d.Label())
	assert.Equal(t, "", d.Selected())
}

func TestParseDropdownState(t *testing.T) {
	assert.Equal(t, DropdownOpen, ParseDropdownState("open"))
	assert.Equal(t, DropdownClosed, ParseDropdownState(""))
	assert.Equal(t, DropdownClosed, ParseDropdownState("OPEN"))
	assert.Equal(t, "open", DropdownOpen.String())
}

func TestProjectService(t *testing.T) {
	svc := NewProjectService(LoadResult{State: LoadOK, Records: decodeRecords(t, sampleData)})

	assert.Len(t, svc.GetAll(), 3)
	assert.Equal(t, []string{"Gestures", "Materials", "Optics", "Sounds"}, svc.Tags())

	p, err := svc.GetBySlug("prism")
	require.NoError(t, err)
	assert.Equal(t, "Prism", p.ProjectName())

	_, err = svc.GetBySlug("retired")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	assert.True(t, svc.Apply(LoadResult{State: LoadEmpty}))
	assert.Empty(t, svc.GetAll())
	assert.Equal(t, LoadEmpty, svc.Snapshot().State)
}

func TestProjectService_FailedReloadKeepsLastGood(t *testing.T) {
	svc := NewProjectService(LoadResult{State: LoadOK, Records: decodeRecords(t, sampleData)})

	applied := svc.Apply(LoadResult{State: LoadFailed, Err: errors.New("unexpected end of JSON input")})
	assert.False(t, applied)
	assert.Equal(t, LoadOK, svc.Snapshot().State)
	assert.Len(t, svc.GetAll(), 3)

	// a good load after a failed one still lands
	assert.True(t, svc.Apply(LoadResult{State: LoadOK, Records: decodeRecords(t, `{"records":[{"fields":{"Project":"A"}}]}`)}))
	assert.Len(t, svc.GetAll(), 1)
}

func TestProjectService_FailureWithNothingToKeep(t *testing.T) {
	svc := NewProjectService(LoadResult{State: LoadFailed, Err: errors.New("boom")})

	assert.True(t, svc.Apply(LoadResult{State: LoadFailed, Err: errors.New("again")}))
	assert.EqualError(t, svc.Snapshot().Err, "again")
}

func TestProjectSlugs_UniqueForLookalikeNames(t *testing.T) {
	records := decodeRecords(t, `{"records":[
		{"fields":{"Project":"C++"}},
		{"fields":{"Project":"C"}},
		{"fields":{"Project":"音楽"}},
		{"fields":{"Project":"光"}},
		{"fields":{"Project":"C 2"}}
	]}`)

	assert.Equal(t, []string{"c", "c-2", "project", "project-2", "c-2-2"}, ProjectSlugs(records))

	svc := NewProjectService(LoadResult{State: LoadOK, Records: records})
	for i, slug := range ProjectSlugs(records) {
		p, err := svc.GetBySlug(slug)
		require.NoError(t, err, slug)
		assert.Equal(t, records[i].ProjectName(), p.ProjectName(), slug)
	}
}

func TestViewModel_CardSlugsMatchLookup(t *testing.T) {
	records := decodeRecords(t, `{"records":[
		{"fields":{"Project":"C++","Tags":["Lang"]}},
		{"fields":{"Project":"C","Tags":["Lang"]}}
	]}`)
	vm := newVM(records)
	vm.SelectTag("Lang")

	grid := vm.Render()
	require.Len(t, grid.Cards, 2)
	assert.Equal(t, "c", grid.Cards[0].Slug)
	assert.Equal(t, "c-2", grid.Cards[1].Slug)
}

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()

	t.Run("records", func(t *testing.T) {
		path := filepath.Join(dir, "data.json")
		require.NoError(t, os.WriteFile(path, []byte(sampleData), 0644))

		res := NewLoader(path, zap.NewNop()).Load(context.Background())
		require.NoError(t, res.Err)
		assert.Equal(t, LoadOK, res.State)
		assert.Len(t, res.Records, 6)
	})

	t.Run("missing records key is empty", func(t *testing.T) {
		path := filepath.Join(dir, "nothing.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

		res := NewLoader(path, zap.NewNop()).Load(context.Background())
		assert.Equal(t, LoadEmpty, res.State)
	})

	t.Run("parse failure is logged", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"records": [`), 0644))

		core, logs := observer.New(zapcore.ErrorLevel)
		res := NewLoader(path, zap.New(core)).Load(context.Background())
		assert.Equal(t, LoadFailed, res.State)
		require.Error(t, res.Err)
		assert.Equal(t, 1, logs.FilterMessage("Error loading data").Len())
	})

	t.Run("missing file", func(t *testing.T) {
		res := NewLoader(filepath.Join(dir, "absent.json"), zap.NewNop()).Load(context.Background())
		assert.Equal(t, LoadFailed, res.State)
		assert.ErrorIs(t, res.Err, os.ErrNotExist)
	})
}

func TestLoader_HTTP(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/data.json" {
			_, _ = w.Write([]byte(sampleData))
			return
		}
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := NewLoader(srv.URL+"/data.json", zap.NewNop()).Load(context.Background())
	assert.Equal(t, LoadOK, res.State)
	assert.Len(t, res.Records, 6)

	hits.Store(0)
	res = NewLoader(srv.URL+"/broken", zap.NewNop()).Load(context.Background())
	assert.Equal(t, LoadFailed, res.State)
	assert.Equal(t, int32(1), hits.Load(), "loader must not retry")
}

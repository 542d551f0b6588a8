package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"polymath-backend/domain/core/entities"
)

// testT0 is an arbitrary fixed anchor so tests are not wall-clock dependent.
var testT0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

type itemSpec struct {
	id        string
	kind      entities.Kind
	title     string
	body      string
	tags      []string
	themes    []string
	tone      string
	createdAt time.Time
	embedding []float32
	entities  int
	status    string
	reason    string
}

func buildItem(t *testing.T, spec itemSpec) *entities.Item {
	t.Helper()
	if spec.kind == "" {
		spec.kind = entities.KindNote
	}
	if spec.title == "" {
		spec.title = "untitled " + spec.id
	}
	if spec.createdAt.IsZero() {
		spec.createdAt = testT0
	}
	item, err := entities.ReconstructItem(
		spec.id, spec.kind, "user-1", spec.title, spec.body,
		spec.tags, spec.themes, spec.tone, spec.createdAt, spec.embedding, spec.entities,
	)
	require.NoError(t, err)
	if spec.status != "" || spec.reason != "" {
		item.SetProjectStatus(spec.status, spec.reason)
	}
	return item
}

func buildNotes(t *testing.T, specs ...itemSpec) []*entities.Item {
	t.Helper()
	notes := make([]*entities.Item, 0, len(specs))
	for _, spec := range specs {
		notes = append(notes, buildItem(t, spec))
	}
	return notes
}

// fillerNotes returns n themed-less notes spaced a day apart.
func fillerNotes(t *testing.T, n int, start time.Time) []*entities.Item {
	t.Helper()
	specs := make([]itemSpec, 0, n)
	for i := 0; i < n; i++ {
		specs = append(specs, itemSpec{
			id:        "filler-" + string(rune('a'+i)),
			title:     "grocery list and errands",
			createdAt: start.AddDate(0, 0, i),
		})
	}
	return buildNotes(t, specs...)
}

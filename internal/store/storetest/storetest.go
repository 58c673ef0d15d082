// Package storetest holds the behaviour every store.Store must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/tinyteacher/internal/flashcard"
	"github.com/hyperifyio/tinyteacher/internal/lesson"
	"github.com/hyperifyio/tinyteacher/internal/quiz"
	"github.com/hyperifyio/tinyteacher/internal/simplify"
	"github.com/hyperifyio/tinyteacher/internal/store"
)

// Sample returns a lesson created at t.
func Sample(title string, t time.Time) lesson.Lesson {
	return lesson.Lesson{
		ID:         lesson.NewID(t),
		Title:      title,
		SourceURL:  "https://example.com/" + title,
		SourceText: "Rivers carry sediment. Deltas form.",
		Summary:    "Rivers carry sediment.",
		Simplified: "Rivers carry sediment.",
		Flashcards: []flashcard.Card{{Term: "sediment", Definition: "Rivers carry sediment."}},
		Quiz: []quiz.Question{{
			Question: "Rivers carry _____.",
			Options:  []string{"deltas", "sediment", "rivers", "carry"},
			Answer:   "sediment",
		}},
		ReadingLevel: simplify.B2,
		CreatedAt:    t.UTC(),
	}
}

// Run exercises s. The store must start empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	older := Sample("older", base)
	newer := Sample("newer", base.Add(time.Hour))
	require.NoError(t, s.Add(ctx, older))
	require.NoError(t, s.Add(ctx, newer))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID, "newest first")
	assert.Equal(t, older.ID, list[1].ID)

	// Half a second apart, inside the same wall-clock second.
	early := Sample("early", base.Add(2*time.Hour))
	late := Sample("late", base.Add(2*time.Hour+500*time.Millisecond))
	require.NoError(t, s.Add(ctx, late))
	require.NoError(t, s.Add(ctx, early))
	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, late.ID, list[0].ID, "sub-second ordering")
	assert.Equal(t, early.ID, list[1].ID)
	require.NoError(t, s.Delete(ctx, early.ID))
	require.NoError(t, s.Delete(ctx, late.ID))

	got, err := s.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, older, got)

	got.Simplified = "Rivers move sand."
	got.ReadingLevel = simplify.A2
	require.NoError(t, s.Update(ctx, got))
	again, err := s.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rivers move sand.", again.Simplified)
	assert.Equal(t, simplify.A2, again.ReadingLevel)

	require.NoError(t, s.Delete(ctx, older.ID))
	_, err = s.Get(ctx, older.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, older.ID), store.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, older), store.ErrNotFound)

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, newer.ID, list[0].ID)
}

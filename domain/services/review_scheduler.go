package services

import (
	"sort"
	"time"

	"polymath-backend/domain/core/entities"
)

// reviewIntervals is the escalating resurfacing table, in days, indexed by
// review count. Notes reviewed more often resurface increasingly rarely,
// capped at the last entry.
var reviewIntervals = []int{1, 3, 7, 14, 30, 60, 90}

// DefaultDueLimit is how many due notes the scheduler surfaces per run.
const DefaultDueLimit = 5

// ReviewScheduler decides which notes are due for resurfacing and ranks
// them. Pure computation over already-fetched data.
type ReviewScheduler struct {
	intervals []int
	limit     int
}

// NewReviewScheduler creates a scheduler with the standard interval table.
func NewReviewScheduler() *ReviewScheduler {
	return &ReviewScheduler{
		intervals: reviewIntervals,
		limit:     DefaultDueLimit,
	}
}

// TargetInterval returns the days a note with the given review count should
// wait between reviews.
func (s *ReviewScheduler) TargetInterval(reviewCount int) int {
	idx := reviewCount
	if idx >= len(s.intervals) {
		idx = len(s.intervals) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return s.intervals[idx]
}

// Evaluate computes the schedule decision for a single note. A note is due
// when at least its target interval has elapsed since the last review (or
// capture, if never reviewed).
func (s *ReviewScheduler) Evaluate(note *entities.Item, state *entities.ReviewState, now time.Time) (*entities.DueNote, bool) {
	if note == nil || state == nil {
		return nil, false
	}

	days := state.DaysSinceReview(now)
	interval := s.TargetInterval(state.ReviewCount)
	if days < interval {
		return nil, false
	}

	return &entities.DueNote{
		Note:            note,
		NoteID:          note.ID(),
		Title:           note.Title(),
		DaysSinceReview: days,
		TargetInterval:  interval,
		Priority:        s.priority(note, days),
		Review:          state,
	}, true
}

// DueNotes evaluates the full note set and returns the top due notes sorted
// by priority descending. Notes without review state fall back to a fresh
// state anchored at their creation time.
func (s *ReviewScheduler) DueNotes(notes []*entities.Item, states map[string]*entities.ReviewState, now time.Time) []*entities.DueNote {
	due := make([]*entities.DueNote, 0)
	for _, note := range notes {
		state := states[note.ID()]
		if state == nil {
			fresh, err := entities.NewReviewState(note.ID(), note.CreatedAt())
			if err != nil {
				continue
			}
			state = fresh
		}
		if d, ok := s.Evaluate(note, state, now); ok {
			due = append(due, d)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Priority > due[j].Priority
	})

	if len(due) > s.limit {
		due = due[:s.limit]
	}
	return due
}

// priority balances how connected a note is against how recently it was
// touched: 0.5*entity_count + 0.5*recency, recency fading to zero over a
// year.
func (s *ReviewScheduler) priority(note *entities.Item, daysSinceReview int) float64 {
	recency := 1.0 - float64(daysSinceReview)/365.0
	if recency < 0 {
		recency = 0
	}
	return 0.5*float64(note.EntityCount()) + 0.5*recency
}

package scheduler

import (
	"fmt"

	apperrors "github.com/fbedussi/ganpro/internal/errors"
	model "github.com/fbedussi/ganpro/internal/models"
)

// Edge is a derived dependency arrow on the chart. The ordinal indexes are
// positions in the task list, used by the UI to place the arrow between rows.
type Edge struct {
	From EdgeFrom `json:"from"`
	To   EdgeTo   `json:"to"`
}

type EdgeFrom struct {
	ID      uint      `json:"id"`
	Index   int       `json:"index"`
	EndDate model.Day `json:"endDate"`
}

type EdgeTo struct {
	ID        uint      `json:"id"`
	Index     int       `json:"index"`
	StartDate model.Day `json:"startDate"`
}

// Dependencies derives the edges implied by each task's dependency-id list.
// Edge order follows the task list order, and within one task the stored
// order of its dependency ids. A dependency id with no matching task aborts
// the extraction: proceeding with a sentinel index would silently corrupt the
// layout.
func Dependencies(tasks []model.Task) ([]Edge, error) {
	index := make(map[uint]int, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
	}

	var edges []Edge
	for i, task := range tasks {
		for _, depID := range task.DependenciesID {
			fromIndex, ok := index[depID]
			if !ok {
				return nil, fmt.Errorf("%w: task %d depends on %d", apperrors.ErrDanglingDependency, task.ID, depID)
			}
			edges = append(edges, Edge{
				From: EdgeFrom{
					ID:      depID,
					Index:   fromIndex,
					EndDate: tasks[fromIndex].EndDate,
				},
				To: EdgeTo{
					ID:        task.ID,
					Index:     i,
					StartDate: task.StartDate,
				},
			})
		}
	}

	return edges, nil
}

// CheckAcyclic rejects a task set whose dependency relation contains a cycle.
// Unknown ids are ignored here; Dependencies reports them.
func CheckAcyclic(tasks []model.Task) error {
	deps := make(map[uint]model.IDList, len(tasks))
	for _, t := range tasks {
		deps[t.ID] = t.DependenciesID
	}

	const (
		white = iota
		grey
		black
	)
	colors := make(map[uint]int, len(tasks))

	var visit func(id uint) bool
	visit = func(id uint) bool {
		colors[id] = grey
		for _, depID := range deps[id] {
			if _, known := deps[depID]; !known {
				continue
			}
			switch colors[depID] {
			case grey:
				return false
			case white:
				if !visit(depID) {
					return false
				}
			}
		}
		colors[id] = black
		return true
	}

	for _, t := range tasks {
		if colors[t.ID] == white && !visit(t.ID) {
			return apperrors.ErrDependencyCycle
		}
	}
	return nil
}

package scheduler

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/fbedussi/ganpro/internal/errors"
	model "github.com/fbedussi/ganpro/internal/models"
)

const dependencyNotEndedMessage = "A task cannot start before the tasks it depends on are ended"

// NonEndedDependencies returns the referenced dependency tasks whose end date
// falls on or after the proposed start date. A non-empty result blocks the
// edit. A dependency id with no matching task is a referential fault.
func NonEndedDependencies(tasks []model.Task, dependencyIDs model.IDList, start model.Day) ([]model.Task, error) {
	byID := make(map[uint]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	var nonEnded []model.Task
	for _, depID := range dependencyIDs {
		dep, ok := byID[depID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", apperrors.ErrDanglingDependency, depID)
		}
		if !dep.EndDate.Before(start) {
			nonEnded = append(nonEnded, dep)
		}
	}
	return nonEnded, nil
}

// FieldErrors is the per-field error state of the task form. The start-date
// and dependencies fields are cross-linked: both predicates are re-evaluated
// together on every change, so an error clears as soon as its condition no
// longer holds, while a non-working start date keeps its error no matter how
// the dependencies change.
type FieldErrors struct {
	StartDate    string `json:"startDate,omitempty"`
	Dependencies string `json:"dependenciesId,omitempty"`
}

func (e FieldErrors) IsZero() bool {
	return e == FieldErrors{}
}

func (e FieldErrors) asValidation() error {
	if e.IsZero() {
		return nil
	}
	fields := make(map[string]string)
	if e.StartDate != "" {
		fields["startDate"] = e.StartDate
	}
	if e.Dependencies != "" {
		fields["dependenciesId"] = e.Dependencies
	}
	return &apperrors.Validation{Fields: fields}
}

// ValidateFields evaluates the start-date and dependency predicates for a
// proposed task against its project's tasks. Both fields are always evaluated
// in the same pass, so one error never hides the other.
func ValidateFields(ctx context.Context, cal Calendar, tasks []model.Task, proposed model.Task) (FieldErrors, error) {
	var fe FieldErrors

	depIDs := proposed.DependenciesID
	selfDependent := depIDs.Contains(proposed.ID) && proposed.ID != 0
	if selfDependent {
		kept := make(model.IDList, 0, len(depIDs)-1)
		for _, id := range depIDs {
			if id != proposed.ID {
				kept = append(kept, id)
			}
		}
		depIDs = kept
	}

	nonEnded, err := NonEndedDependencies(tasks, depIDs, proposed.StartDate)
	if err != nil {
		return fe, err
	}

	switch {
	case proposed.StartDate.IsWeekend():
		fe.StartDate = "Start date cannot be a weekend day"
	case cal.IsNonWorkingDay(ctx, proposed.StartDate):
		fe.StartDate = "Start date cannot be a holiday"
	case len(nonEnded) > 0:
		fe.StartDate = dependencyNotEndedMessage
	}

	switch {
	case selfDependent:
		fe.Dependencies = "A task cannot depend on itself"
	case len(nonEnded) > 0:
		names := make([]string, len(nonEnded))
		for i, dep := range nonEnded {
			names[i] = dep.Name + " ends after the task start"
		}
		fe.Dependencies = strings.Join(names, ", ")
	}

	return fe, nil
}

// Validate runs the field predicates plus the cycle check and folds the
// outcome into an error suitable for blocking a commit.
func Validate(ctx context.Context, cal Calendar, tasks []model.Task, proposed model.Task) error {
	fe, err := ValidateFields(ctx, cal, tasks, proposed)
	if err != nil {
		return err
	}
	if err := fe.asValidation(); err != nil {
		return err
	}

	candidate := withCandidate(tasks, proposed)
	return CheckAcyclic(candidate)
}

// withCandidate substitutes the proposed task into the project task list (or
// appends it when it is new) so graph checks see the post-edit state.
func withCandidate(tasks []model.Task, proposed model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks)+1)
	replaced := false
	for _, t := range tasks {
		if t.ID == proposed.ID && proposed.ID != 0 {
			out = append(out, proposed)
			replaced = true
			continue
		}
		out = append(out, t)
	}
	if !replaced {
		out = append(out, proposed)
	}
	return out
}

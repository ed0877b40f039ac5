package scheduler

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/fbedussi/ganpro/internal/errors"
	model "github.com/fbedussi/ganpro/internal/models"
)

// TaskStore is the slice of the record store the propagator writes through.
type TaskStore interface {
	Update(ctx context.Context, task *model.Task) error
}

// PlanState tracks a reschedule through its short-lived lifecycle.
type PlanState int

const (
	// StateEditing: the edit affects no dependent task and can commit
	// directly.
	StateEditing PlanState = iota
	// StatePendingConfirmation: dependent tasks would shift; the commit is
	// suspended until the user decides.
	StatePendingConfirmation
	// StateCommitting: the decision was taken and writes are in flight.
	StateCommitting
)

// Shift is one dependent task together with the dates it will move to.
type Shift struct {
	Task               model.Task `json:"task"`
	NewStartDate       model.Day  `json:"newStartDate"`
	NewEffectiveLength int        `json:"newEffectiveLength"`
	NewEndDate         model.Day  `json:"newEndDate"`
}

// Plan is the outcome of the detection phase: the edited task with its new
// dates already applied, plus every directly dependent task whose start no
// longer clears the new end date.
type Plan struct {
	Token  string     `json:"token"`
	State  PlanState  `json:"-"`
	Driver model.Task `json:"driver"`
	ToFix  []Shift    `json:"tasksToBeFixed"`
}

// Propagator detects and commits reschedules. Plans that need confirmation
// are parked here until the caller's decision arrives; declining discards the
// plan without touching any record.
type Propagator struct {
	cal Calendar

	mu      sync.Mutex
	pending map[string]*Plan
}

func NewPropagator(cal Calendar) *Propagator {
	return &Propagator{
		cal:     cal,
		pending: make(map[string]*Plan),
	}
}

// Plan scans the project for tasks that list driver as a dependency and
// currently start on or before driver's new end date, and computes the shift
// each one needs: start on the first calendar day after the new end, with the
// effective length recomputed from the task's own nominal length.
//
// Only direct dependents are considered. Tasks depending on a shifted task
// are left alone in this pass, matching the one-hop policy of the planner; a
// deeper cascade surfaces on the next edit.
func (p *Propagator) Plan(ctx context.Context, driver model.Task, projectTasks []model.Task) *Plan {
	plan := &Plan{
		Token:  uuid.NewString(),
		State:  StateEditing,
		Driver: driver,
	}

	newStart := driver.EndDate.AddDays(1)
	for _, t := range projectTasks {
		if t.ID == driver.ID || !t.DependenciesID.Contains(driver.ID) {
			continue
		}
		if t.StartDate.After(driver.EndDate) {
			continue
		}

		effectiveLength := EffectiveLength(ctx, p.cal, newStart, t.Length)
		plan.ToFix = append(plan.ToFix, Shift{
			Task:               t,
			NewStartDate:       newStart,
			NewEffectiveLength: effectiveLength,
			NewEndDate:         EndDate(newStart, effectiveLength),
		})
	}

	p.mu.Lock()
	// a new edit of the same task makes any earlier pending plan a stale
	// snapshot; drop it so it can no longer be confirmed
	for token, stale := range p.pending {
		if stale.Driver.ID == driver.ID {
			delete(p.pending, token)
		}
	}
	if len(plan.ToFix) > 0 {
		plan.State = StatePendingConfirmation
		p.pending[plan.Token] = plan
	}
	p.mu.Unlock()

	return plan
}

// Confirm resolves a pending plan. The token must belong to a plan driven by
// driverID. With accept the plan moves to committing and is returned for
// Commit; otherwise it is dropped and no record changes.
func (p *Propagator) Confirm(token string, driverID uint, accept bool) (*Plan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, ok := p.pending[token]
	if !ok || plan.Driver.ID != driverID {
		return nil, apperrors.ErrPlanNotFound
	}
	delete(p.pending, token)

	if !accept {
		return nil, nil
	}
	plan.State = StateCommitting
	return plan, nil
}

// Commit persists a plan: every dependent task first, the driving task last,
// one awaited write each. If a write fails midway the driver is still
// unwritten, so the edit that caused the shift is not yet visible.
func (p *Propagator) Commit(ctx context.Context, store TaskStore, plan *Plan) error {
	plan.State = StateCommitting

	for i := range plan.ToFix {
		shift := &plan.ToFix[i]
		shift.Task.StartDate = shift.NewStartDate
		shift.Task.EffectiveLength = shift.NewEffectiveLength
		shift.Task.EndDate = shift.NewEndDate
		if err := store.Update(ctx, &shift.Task); err != nil {
			return err
		}
	}

	return store.Update(ctx, &plan.Driver)
}

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/fbedussi/ganpro/internal/errors"
	model "github.com/fbedussi/ganpro/internal/models"
)

// recordingStore captures update order without a real database.
type recordingStore struct {
	updated []model.Task
	failOn  uint
}

func (s *recordingStore) Update(ctx context.Context, task *model.Task) error {
	if s.failOn != 0 && task.ID == s.failOn {
		return errors.New("store failure")
	}
	s.updated = append(s.updated, *task)
	return nil
}

func cascadeFixture(t *testing.T) (driver model.Task, dependent model.Task) {
	t.Helper()

	// the driver's end moved from 2024-04-08 to 2024-04-09, onto the
	// dependent's start
	driver = model.Task{
		ID:              1,
		Name:            "design",
		StartDate:       model.NewDay(2024, time.April, 8),
		Length:          2,
		EffectiveLength: 2,
		EndDate:         model.NewDay(2024, time.April, 9),
		DependenciesID:  model.IDList{},
	}
	dependent = model.Task{
		ID:              2,
		Name:            "build",
		StartDate:       model.NewDay(2024, time.April, 9),
		Length:          2,
		EffectiveLength: 2,
		EndDate:         model.NewDay(2024, time.April, 10),
		DependenciesID:  model.IDList{1},
	}
	return driver, dependent
}

func TestPlanFlagsDirectDependents(t *testing.T) {
	cal := italyCalendar(t)
	prop := NewPropagator(cal)
	driver, dependent := cascadeFixture(t)

	plan := prop.Plan(context.Background(), driver, []model.Task{driver, dependent})

	if plan.State != StatePendingConfirmation {
		t.Errorf("plan state = %v, want pending confirmation", plan.State)
	}
	if plan.Token == "" {
		t.Error("pending plan must carry a token")
	}
	if len(plan.ToFix) != 1 {
		t.Fatalf("got %d tasks to fix, want 1", len(plan.ToFix))
	}

	shift := plan.ToFix[0]
	if shift.Task.ID != dependent.ID {
		t.Errorf("flagged task %d, want %d", shift.Task.ID, dependent.ID)
	}
	if !shift.NewStartDate.Equal(model.NewDay(2024, time.April, 10)) {
		t.Errorf("new start = %s, want 2024-04-10", shift.NewStartDate)
	}
	if shift.NewEffectiveLength != 2 {
		t.Errorf("new effective length = %d, want 2", shift.NewEffectiveLength)
	}
	if !shift.NewEndDate.Equal(model.NewDay(2024, time.April, 11)) {
		t.Errorf("new end = %s, want 2024-04-11", shift.NewEndDate)
	}
}

func TestPlanRecomputesShiftAroundNonWorkingDays(t *testing.T) {
	cal := italyCalendar(t)
	prop := NewPropagator(cal)

	// driver now ends on Friday 2024-04-12; the dependent lands on the
	// following Saturday and must absorb the weekend
	driver := model.Task{
		ID:        1,
		StartDate: model.NewDay(2024, time.April, 8),
		Length:    5,
		EndDate:   model.NewDay(2024, time.April, 12),
	}
	dependent := model.Task{
		ID:             2,
		StartDate:      model.NewDay(2024, time.April, 11),
		Length:         2,
		DependenciesID: model.IDList{1},
	}

	plan := prop.Plan(context.Background(), driver, []model.Task{driver, dependent})
	if len(plan.ToFix) != 1 {
		t.Fatalf("got %d tasks to fix, want 1", len(plan.ToFix))
	}

	shift := plan.ToFix[0]
	if !shift.NewStartDate.Equal(model.NewDay(2024, time.April, 13)) {
		t.Errorf("new start = %s, want 2024-04-13", shift.NewStartDate)
	}
	// Saturday start: Sat+Sun skipped, Mon and Tue consumed
	if shift.NewEffectiveLength != 4 {
		t.Errorf("new effective length = %d, want 4", shift.NewEffectiveLength)
	}
	if !shift.NewEndDate.Equal(model.NewDay(2024, time.April, 16)) {
		t.Errorf("new end = %s, want 2024-04-16", shift.NewEndDate)
	}
}

func TestPlanIsOneHop(t *testing.T) {
	cal := italyCalendar(t)
	prop := NewPropagator(cal)
	driver, dependent := cascadeFixture(t)

	// depends on the dependent, not on the driver; it would be affected by
	// the dependent's shift but this pass must not touch it
	downstream := model.Task{
		ID:             3,
		Name:           "ship",
		StartDate:      model.NewDay(2024, time.April, 11),
		Length:         1,
		DependenciesID: model.IDList{2},
	}

	plan := prop.Plan(context.Background(), driver, []model.Task{driver, dependent, downstream})
	if len(plan.ToFix) != 1 || plan.ToFix[0].Task.ID != dependent.ID {
		t.Fatalf("expected only the direct dependent to be flagged, got %+v", plan.ToFix)
	}
}

func TestPlanIgnoresUnaffectedDependents(t *testing.T) {
	cal := italyCalendar(t)
	prop := NewPropagator(cal)
	driver, dependent := cascadeFixture(t)
	dependent.StartDate = model.NewDay(2024, time.April, 10) // already clear of the new end

	plan := prop.Plan(context.Background(), driver, []model.Task{driver, dependent})
	if plan.State != StateEditing {
		t.Errorf("plan state = %v, want editing", plan.State)
	}
	if len(plan.ToFix) != 0 {
		t.Errorf("expected no tasks to fix, got %d", len(plan.ToFix))
	}
}

func TestCommitWritesDependentsBeforeDriver(t *testing.T) {
	cal := italyCalendar(t)
	prop := NewPropagator(cal)
	driver, dependent := cascadeFixture(t)

	plan := prop.Plan(context.Background(), driver, []model.Task{driver, dependent})

	confirmed, err := prop.Confirm(plan.Token, driver.ID, true)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	store := &recordingStore{}
	if err := prop.Commit(context.Background(), store, confirmed); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if len(store.updated) != 2 {
		t.Fatalf("got %d writes, want 2", len(store.updated))
	}
	if store.updated[0].ID != dependent.ID {
		t.Errorf("first write was task %d, want the dependent %d", store.updated[0].ID, dependent.ID)
	}
	if store.updated[1].ID != driver.ID {
		t.Errorf("last write was task %d, want the driver %d", store.updated[1].ID, driver.ID)
	}

	shifted := store.updated[0]
	if !shifted.StartDate.Equal(model.NewDay(2024, time.April, 10)) {
		t.Errorf("persisted start = %s, want 2024-04-10", shifted.StartDate)
	}
	if !shifted.EndDate.Equal(model.NewDay(2024, time.April, 11)) {
		t.Errorf("persisted end = %s, want 2024-04-11", shifted.EndDate)
	}
}

func TestCommitStopsBeforeDriverOnStoreFailure(t *testing.T) {
	cal := italyCalendar(t)
	prop := NewPropagator(cal)
	driver, dependent := cascadeFixture(t)

	plan := prop.Plan(context.Background(), driver, []model.Task{driver, dependent})
	confirmed, err := prop.Confirm(plan.Token, driver.ID, true)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	store := &recordingStore{failOn: dependent.ID}
	if err := prop.Commit(context.Background(), store, confirmed); err == nil {
		t.Fatal("expected commit to fail")
	}
	for _, written := range store.updated {
		if written.ID == driver.ID {
			t.Error("driver must not be written after a dependent write fails")
		}
	}
}

func TestConfirmDecline(t *testing.T) {
	cal := italyCalendar(t)
	prop := NewPropagator(cal)
	driver, dependent := cascadeFixture(t)

	plan := prop.Plan(context.Background(), driver, []model.Task{driver, dependent})

	declined, err := prop.Confirm(plan.Token, driver.ID, false)
	if err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if declined != nil {
		t.Error("declining must not return a committable plan")
	}

	// the plan is gone either way
	if _, err := prop.Confirm(plan.Token, driver.ID, true); !errors.Is(err, apperrors.ErrPlanNotFound) {
		t.Errorf("expected plan not found after decline, got %v", err)
	}
}

func TestConfirmUnknownToken(t *testing.T) {
	prop := NewPropagator(italyCalendar(t))
	if _, err := prop.Confirm("nope", 1, true); !errors.Is(err, apperrors.ErrPlanNotFound) {
		t.Errorf("expected plan not found, got %v", err)
	}
}

func TestConfirmRejectsMismatchedDriver(t *testing.T) {
	cal := italyCalendar(t)
	prop := NewPropagator(cal)
	driver, dependent := cascadeFixture(t)

	plan := prop.Plan(context.Background(), driver, []model.Task{driver, dependent})

	if _, err := prop.Confirm(plan.Token, 999, true); !errors.Is(err, apperrors.ErrPlanNotFound) {
		t.Fatalf("expected plan not found for the wrong task, got %v", err)
	}

	// the mismatch must not consume the plan
	confirmed, err := prop.Confirm(plan.Token, driver.ID, true)
	if err != nil {
		t.Fatalf("confirm with the right task failed: %v", err)
	}
	if confirmed == nil || confirmed.Driver.ID != driver.ID {
		t.Errorf("expected the plan back, got %+v", confirmed)
	}
}

func TestPlanSupersedesPendingPlanForSameDriver(t *testing.T) {
	cal := italyCalendar(t)
	prop := NewPropagator(cal)
	driver, dependent := cascadeFixture(t)

	first := prop.Plan(context.Background(), driver, []model.Task{driver, dependent})
	second := prop.Plan(context.Background(), driver, []model.Task{driver, dependent})

	// the earlier snapshot is stale once the task is re-planned
	if _, err := prop.Confirm(first.Token, driver.ID, true); !errors.Is(err, apperrors.ErrPlanNotFound) {
		t.Fatalf("expected the first plan to be superseded, got %v", err)
	}

	confirmed, err := prop.Confirm(second.Token, driver.ID, true)
	if err != nil {
		t.Fatalf("confirm of the latest plan failed: %v", err)
	}
	if confirmed == nil {
		t.Fatal("expected the latest plan back")
	}
}

package services

import (
	"context"

	"github.com/fbedussi/ganpro/internal/calendar"
	apperrors "github.com/fbedussi/ganpro/internal/errors"
	model "github.com/fbedussi/ganpro/internal/models"
	repository "github.com/fbedussi/ganpro/internal/repositories"
	"github.com/fbedussi/ganpro/internal/scheduler"
)

// TaskInput is the editable side of a task: what the form submits, before the
// engine derives effective length, end date and (on creation) a color. A full
// model.Task only exists once these are computed.
type TaskInput struct {
	Name           string
	StartDate      model.Day
	Length         int
	Assignee       string
	DependenciesID model.IDList
}

type TaskService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	cal      *calendar.Service
	prop     *scheduler.Propagator
}

func NewTaskService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	cal *calendar.Service,
	prop *scheduler.Propagator,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		cal:      cal,
		prop:     prop,
	}
}

// CreateTask validates the input against the project's tasks, derives the
// calendar span and assigns a color, then persists the new record.
func (s *TaskService) CreateTask(ctx context.Context, projectID uint, in TaskInput) (*model.Task, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	projectTasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	task := model.Task{
		ProjectID:      projectID,
		Name:           in.Name,
		StartDate:      in.StartDate,
		Length:         in.Length,
		Assignee:       in.Assignee,
		DependenciesID: in.dependencies(),
		Color:          randomColor(),
	}

	if err := s.validate(ctx, projectTasks, task, in); err != nil {
		return nil, err
	}

	s.derive(ctx, &task)

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies an edit to an existing task. When the new end date
// pushes into directly dependent tasks, nothing is written: the returned plan
// describes the shifts and waits for ConfirmReschedule. Otherwise the edit
// commits immediately and the updated task is returned.
func (s *TaskService) UpdateTask(ctx context.Context, id uint, in TaskInput) (*model.Task, *scheduler.Plan, error) {
	existing, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	projectTasks, err := s.tasks.ListByProject(ctx, existing.ProjectID)
	if err != nil {
		return nil, nil, err
	}

	updated := *existing
	updated.Name = in.Name
	updated.StartDate = in.StartDate
	updated.Length = in.Length
	updated.Assignee = in.Assignee
	updated.DependenciesID = in.dependencies()
	// color assigned at creation survives every edit

	if err := s.validate(ctx, projectTasks, updated, in); err != nil {
		return nil, nil, err
	}

	s.derive(ctx, &updated)

	plan := s.prop.Plan(ctx, updated, projectTasks)
	if len(plan.ToFix) > 0 {
		return nil, plan, nil
	}

	if err := s.prop.Commit(ctx, s.tasks, plan); err != nil {
		return nil, nil, err
	}
	return &plan.Driver, nil, nil
}

// ConfirmReschedule resolves a pending plan by token. The token must belong
// to a plan driven by the addressed task. Accepting commits the dependent
// shifts first and the driving task last; declining discards the plan and
// returns nil without touching any record.
func (s *TaskService) ConfirmReschedule(ctx context.Context, id uint, token string, accept bool) (*model.Task, error) {
	plan, err := s.prop.Confirm(token, id, accept)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}

	if err := s.prop.Commit(ctx, s.tasks, plan); err != nil {
		return nil, err
	}
	return &plan.Driver, nil
}

func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) ListByProject(ctx context.Context, projectID uint) ([]model.Task, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

// DeleteTask removes a task. Other tasks may list it as a dependency; the id
// is stripped from their lists first so the derived graph stays resolvable.
func (s *TaskService) DeleteTask(ctx context.Context, id uint) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}

	projectTasks, err := s.tasks.ListByProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}

	for i := range projectTasks {
		dependent := &projectTasks[i]
		if dependent.ID == id || !dependent.DependenciesID.Contains(id) {
			continue
		}
		kept := make(model.IDList, 0, len(dependent.DependenciesID)-1)
		for _, depID := range dependent.DependenciesID {
			if depID != id {
				kept = append(kept, depID)
			}
		}
		dependent.DependenciesID = kept
		if err := s.tasks.Update(ctx, dependent); err != nil {
			return err
		}
	}

	return s.tasks.Delete(ctx, id)
}

// CalendarView is what the chart needs beyond the task list: the project's
// overall date span, the months it crosses, and the derived dependency edges.
type CalendarView struct {
	Start        *model.Day       `json:"start"`
	End          *model.Day       `json:"end"`
	Months       []string         `json:"months"`
	Dependencies []scheduler.Edge `json:"dependencies"`
}

func (s *TaskService) ProjectCalendar(ctx context.Context, projectID uint) (*CalendarView, error) {
	tasks, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	edges, err := scheduler.Dependencies(tasks)
	if err != nil {
		return nil, err
	}

	view := &CalendarView{
		Months:       scheduler.Months(tasks),
		Dependencies: edges,
	}
	if start, end, ok := scheduler.ProjectSpan(tasks); ok {
		view.Start = &start
		view.End = &end
	}
	return view, nil
}

func (s *TaskService) validate(ctx context.Context, projectTasks []model.Task, task model.Task, in TaskInput) error {
	fields := make(map[string]string)
	if in.Name == "" {
		fields["name"] = "Name is required"
	}
	if in.Length < 1 {
		fields["length"] = "Length must be at least 1"
	}
	if in.StartDate.IsZero() {
		fields["startDate"] = "Start date is required"
	}
	if len(fields) > 0 {
		return &apperrors.Validation{Fields: fields}
	}

	return scheduler.Validate(ctx, s.cal, projectTasks, task)
}

func (s *TaskService) derive(ctx context.Context, task *model.Task) {
	task.EffectiveLength = scheduler.EffectiveLength(ctx, s.cal, task.StartDate, task.Length)
	task.EndDate = scheduler.EndDate(task.StartDate, task.EffectiveLength)
}

func (in TaskInput) dependencies() model.IDList {
	if in.DependenciesID == nil {
		return model.IDList{}
	}
	return in.DependenciesID
}

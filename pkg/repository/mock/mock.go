package mock

import (
	"context"
	"strings"
	"time"

	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository"
)

// Test helpers and mocks. Each mock keeps its rows in memory and
// honors the same sentinel-error contracts as the SQLite
// implementation. Err forces every method of a mock to fail.
type Mocks struct {
	Users        *UserRepo
	Projects     *ProjectRepo
	Questions    *QuestionRepo
	Answers      *AnswerRepo
	Tasks        *TaskRepo
	Applications *ApplicationRepo
	Plans        *LearningPlanRepo
	Templates    *EnvTemplateRepo
}

func NewMocks() *Mocks {
	users := &UserRepo{Users: map[int64]*models.User{}}
	projects := &ProjectRepo{Projects: map[int64]*models.Project{}}
	questions := &QuestionRepo{}
	answers := &AnswerRepo{questions: questions}
	tasks := &TaskRepo{Tasks: map[int64]*models.Task{}, users: users}
	applications := &ApplicationRepo{Applications: map[int64]*models.TaskApplication{}, tasks: tasks}
	plans := &LearningPlanRepo{Plans: map[int64]*models.LearningPlan{}}
	templates := &EnvTemplateRepo{}

	return &Mocks{
		Users:        users,
		Projects:     projects,
		Questions:    questions,
		Answers:      answers,
		Tasks:        tasks,
		Applications: applications,
		Plans:        plans,
		Templates:    templates,
	}
}

type UserRepo struct {
	Users  map[int64]*models.User
	NextID int64
	Err    error
}

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.NextID++
	stored := *u
	stored.ID = m.NextID
	stored.Created = time.Now().Unix()
	m.Users[stored.ID] = &stored
	return stored.ID, nil
}

func (m *UserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if u, ok := m.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *UserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.Users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) UpdateUserProfile(ctx context.Context, u *models.User) error {
	if m.Err != nil {
		return m.Err
	}
	if stored, ok := m.Users[u.ID]; ok {
		stored.FullName = u.FullName
		stored.Bio = u.Bio
		stored.Skills = u.Skills
		stored.Avatar = u.Avatar
	}
	return nil
}

func (m *UserRepo) TouchLastLogin(ctx context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	if stored, ok := m.Users[id]; ok {
		now := time.Now().Unix()
		stored.LastLogin = &now
	}
	return nil
}

type ProjectRepo struct {
	Projects map[int64]*models.Project
	NextID   int64
	Err      error
}

func (m *ProjectRepo) CreateProject(ctx context.Context, p *models.Project) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.NextID++
	stored := *p
	stored.ID = m.NextID
	if stored.Status == "" {
		stored.Status = models.ProjectQuestioning
	}
	stored.Created = time.Now().Unix()
	m.Projects[stored.ID] = &stored
	return stored.ID, nil
}

func (m *ProjectRepo) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *ProjectRepo) UpdateProjectStatus(ctx context.Context, id int64, status string) error {
	if m.Err != nil {
		return m.Err
	}
	if p, ok := m.Projects[id]; ok {
		p.Status = status
	}
	return nil
}

type QuestionRepo struct {
	Questions []models.Question
	NextID    int64
	Err       error
}

func (m *QuestionRepo) AddQuestion(ctx context.Context, q *models.Question) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.NextID++
	stored := *q
	stored.ID = m.NextID
	var order int64
	for _, existing := range m.Questions {
		if existing.ProjectID == q.ProjectID && existing.Order > order {
			order = existing.Order
		}
	}
	stored.Order = order + 1
	stored.Created = time.Now().Unix()
	m.Questions = append(m.Questions, stored)
	return stored.ID, nil
}

func (m *QuestionRepo) ListQuestions(ctx context.Context, projectID int64) ([]models.Question, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Question
	for _, q := range m.Questions {
		if q.ProjectID == projectID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *QuestionRepo) CountQuestions(ctx context.Context, projectID int64) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, q := range m.Questions {
		if q.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

type AnswerRepo struct {
	Answers []models.Answer
	NextID  int64
	Err     error

	questions *QuestionRepo
}

func (m *AnswerRepo) AddAnswer(ctx context.Context, a *models.Answer) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.NextID++
	stored := *a
	stored.ID = m.NextID
	stored.Created = time.Now().Unix()
	m.Answers = append(m.Answers, stored)
	return stored.ID, nil
}

func (m *AnswerRepo) ListAnswers(ctx context.Context, projectID int64) ([]models.Answer, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Answer
	for _, a := range m.Answers {
		if a.ProjectID != projectID {
			continue
		}
		if m.questions != nil {
			for _, q := range m.questions.Questions {
				if q.ID == a.QuestionID {
					a.QuestionTxt = q.QuestionTxt
					break
				}
			}
		}
		out = append(out, a)
	}
	return out, nil
}

type TaskRepo struct {
	Tasks  map[int64]*models.Task
	NextID int64
	Err    error

	users *UserRepo
}

func (m *TaskRepo) CreateTasks(ctx context.Context, projectID int64, tasks []models.Task) ([]int64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		m.NextID++
		stored := t
		stored.ID = m.NextID
		stored.ProjectID = projectID
		if stored.Status == "" {
			stored.Status = models.TaskAvailable
		}
		stored.Created = time.Now().Unix()
		m.Tasks[stored.ID] = &stored
		ids = append(ids, stored.ID)
	}
	return ids, nil
}

func (m *TaskRepo) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if t, ok := m.Tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *TaskRepo) ListTasks(ctx context.Context, f repository.TaskFilter) ([]models.Task, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Task
	for _, t := range m.Tasks {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Difficulty != "" && t.Difficulty != f.Difficulty {
			continue
		}
		if f.MinCredits != nil && t.RewardCredits < *f.MinCredits {
			continue
		}
		if f.MaxCredits != nil && t.RewardCredits > *f.MaxCredits {
			continue
		}
		if len(f.Skills) > 0 && !anySkillMatch(t.Skills, f.Skills) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func anySkillMatch(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func (m *TaskRepo) ListTasksByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Task
	for _, t := range m.Tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *TaskRepo) CompleteTask(ctx context.Context, taskID, assigneeID int64) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	t, ok := m.Tasks[taskID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if t.Status != models.TaskAssigned || t.AssigneeID == nil || *t.AssigneeID != assigneeID {
		return 0, repository.ErrConflict
	}
	t.Status = models.TaskCompleted
	if m.users != nil {
		if u, ok := m.users.Users[assigneeID]; ok {
			u.Credits += t.RewardCredits
		}
	}
	return t.RewardCredits, nil
}

type ApplicationRepo struct {
	Applications map[int64]*models.TaskApplication
	NextID       int64
	Err          error

	tasks *TaskRepo
}

func (m *ApplicationRepo) CreateApplication(ctx context.Context, a *models.TaskApplication) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.NextID++
	stored := *a
	stored.ID = m.NextID
	if stored.Status == "" {
		stored.Status = models.ApplicationPending
	}
	stored.Created = time.Now().Unix()
	m.Applications[stored.ID] = &stored
	if m.tasks != nil {
		if t, ok := m.tasks.Tasks[a.TaskID]; ok {
			t.Applicants++
		}
	}
	return stored.ID, nil
}

func (m *ApplicationRepo) GetApplication(ctx context.Context, id int64) (*models.TaskApplication, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if a, ok := m.Applications[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *ApplicationRepo) ListApplicationsByTask(ctx context.Context, taskID int64) ([]models.TaskApplication, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.TaskApplication
	for _, a := range m.Applications {
		if a.TaskID == taskID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *ApplicationRepo) HasApplied(ctx context.Context, taskID, applicantID int64) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	for _, a := range m.Applications {
		if a.TaskID == taskID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (m *ApplicationRepo) AcceptApplication(ctx context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	a, ok := m.Applications[id]
	if !ok {
		return repository.ErrNotFound
	}
	if a.Status != models.ApplicationPending {
		return repository.ErrConflict
	}
	if m.tasks != nil {
		t, ok := m.tasks.Tasks[a.TaskID]
		if !ok {
			return repository.ErrNotFound
		}
		if t.Status != models.TaskAvailable {
			return repository.ErrConflict
		}
		t.Status = models.TaskAssigned
		t.AssigneeID = &a.ApplicantID
	}
	a.Status = models.ApplicationAccepted
	for _, other := range m.Applications {
		if other.TaskID == a.TaskID && other.ID != a.ID && other.Status == models.ApplicationPending {
			other.Status = models.ApplicationRejected
		}
	}
	return nil
}

func (m *ApplicationRepo) RejectApplication(ctx context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	a, ok := m.Applications[id]
	if !ok {
		return repository.ErrNotFound
	}
	if a.Status != models.ApplicationPending {
		return repository.ErrConflict
	}
	a.Status = models.ApplicationRejected
	return nil
}

type LearningPlanRepo struct {
	Plans  map[int64]*models.LearningPlan
	NextID int64
	Err    error
}

func (m *LearningPlanRepo) CreateLearningPlan(ctx context.Context, p *models.LearningPlan) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.NextID++
	stored := *p
	stored.ID = m.NextID
	now := time.Now().Unix()
	stored.Created = now
	stored.Updated = now
	m.Plans[stored.ID] = &stored
	return stored.ID, nil
}

func (m *LearningPlanRepo) GetLearningPlan(ctx context.Context, id int64) (*models.LearningPlan, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Plans[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *LearningPlanRepo) ListLearningPlansByUser(ctx context.Context, userID int64) ([]models.LearningPlan, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.LearningPlan
	for _, p := range m.Plans {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *LearningPlanRepo) UpdateLearningPlanProgress(ctx context.Context, id int64, progressJSON string) error {
	if m.Err != nil {
		return m.Err
	}
	p, ok := m.Plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.ProgressJSON = progressJSON
	p.Updated = time.Now().Unix()
	return nil
}

type EnvTemplateRepo struct {
	Templates []models.EnvTemplate
	Err       error
}

func (m *EnvTemplateRepo) ListEnvTemplates(ctx context.Context) ([]models.EnvTemplate, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Templates, nil
}

func (m *EnvTemplateRepo) GetEnvTemplate(ctx context.Context, category, tier string) (*models.EnvTemplate, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, t := range m.Templates {
		if t.Category == category && t.Tier == tier {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *EnvTemplateRepo) CountEnvTemplates(ctx context.Context) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.Templates)), nil
}

func (m *EnvTemplateRepo) SeedEnvTemplates(ctx context.Context, templates []models.EnvTemplate) error {
	if m.Err != nil {
		return m.Err
	}
	m.Templates = append(m.Templates, templates...)
	return nil
}

var (
	_ repository.UserRepo         = (*UserRepo)(nil)
	_ repository.ProjectRepo      = (*ProjectRepo)(nil)
	_ repository.QuestionRepo     = (*QuestionRepo)(nil)
	_ repository.AnswerRepo       = (*AnswerRepo)(nil)
	_ repository.TaskRepo         = (*TaskRepo)(nil)
	_ repository.ApplicationRepo  = (*ApplicationRepo)(nil)
	_ repository.LearningPlanRepo = (*LearningPlanRepo)(nil)
	_ repository.EnvTemplateRepo  = (*EnvTemplateRepo)(nil)
)

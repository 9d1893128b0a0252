package models

// Project status values. A project only ever moves forward:
// questioning -> ready_for_tasks -> tasks_generated.
const (
	ProjectQuestioning    = "questioning"
	ProjectReadyForTasks  = "ready_for_tasks"
	ProjectTasksGenerated = "tasks_generated"
)

// Task status values.
const (
	TaskAvailable = "available"
	TaskAssigned  = "assigned"
	TaskCompleted = "completed"
	TaskCancelled = "cancelled"
)

// Task difficulty values.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Application status values.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// ValidDifficulty reports whether s is one of the three difficulty levels.
func ValidDifficulty(s string) bool {
	return s == DifficultyBeginner || s == DifficultyIntermediate || s == DifficultyAdvanced
}

type User struct {
	ID           int64    `json:"id" db:"id"`
	Username     string   `json:"username" db:"username"`
	Email        string   `json:"email" db:"email"`
	PasswordHash string   `json:"-" db:"password_hash"`
	FullName     string   `json:"full_name,omitempty" db:"full_name"`
	Bio          string   `json:"bio,omitempty" db:"bio"`
	Skills       []string `json:"skills" db:"skills"`
	Credits      int64    `json:"credits" db:"credits"`
	Avatar       string   `json:"avatar,omitempty" db:"avatar"`
	Created      int64    `json:"created" db:"created"`
	LastLogin    *int64   `json:"last_login,omitempty" db:"last_login"`
}

type Project struct {
	ID          int64  `json:"id" db:"id"`
	UserID      *int64 `json:"user_id,omitempty" db:"user_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Status      string `json:"status" db:"status"`
	Created     int64  `json:"created" db:"created"`
}

type Question struct {
	ID          int64  `json:"id" db:"id"`
	ProjectID   int64  `json:"project_id" db:"project_id"`
	QuestionTxt string `json:"question_text" db:"question_text"`
	Order       int64  `json:"question_order" db:"question_order"`
	Created     int64  `json:"created" db:"created"`
}

type Answer struct {
	ID         int64  `json:"id" db:"id"`
	ProjectID  int64  `json:"project_id" db:"project_id"`
	QuestionID int64  `json:"question_id" db:"question_id"`
	AnswerTxt  string `json:"answer_text" db:"answer_text"`
	Created    int64  `json:"created" db:"created"`

	// QuestionTxt is joined from the questions table on reads.
	QuestionTxt string `json:"question_text,omitempty" db:"question_text"`
}

type Task struct {
	ID             int64    `json:"id" db:"id"`
	ProjectID      int64    `json:"project_id" db:"project_id"`
	Title          string   `json:"title" db:"title"`
	Description    string   `json:"description" db:"description"`
	Difficulty     string   `json:"difficulty" db:"difficulty"`
	EstimatedHours string   `json:"estimated_hours" db:"estimated_hours"`
	Skills         []string `json:"skills" db:"skills"`
	RewardCredits  int64    `json:"reward_credits" db:"reward_credits"`
	Status         string   `json:"status" db:"status"`
	Applicants     int64    `json:"applicants_count" db:"applicants_count"`
	AssigneeID     *int64   `json:"assignee_id,omitempty" db:"assignee_id"`
	Created        int64    `json:"created" db:"created"`
}

type TaskApplication struct {
	ID          int64  `json:"id" db:"id"`
	TaskID      int64  `json:"task_id" db:"task_id"`
	ApplicantID int64  `json:"applicant_id" db:"applicant_id"`
	Message     string `json:"message,omitempty" db:"message"`
	Status      string `json:"status" db:"status"`
	Created     int64  `json:"created" db:"created"`
}

// LearningPlan stores the generated plan and the inputs that produced it
// as opaque JSON blobs; progress is mutable.
type LearningPlan struct {
	ID           int64  `json:"id" db:"id"`
	UserID       int64  `json:"user_id" db:"user_id"`
	PlanJSON     string `json:"plan_json" db:"plan_json"`
	InputsJSON   string `json:"inputs_json" db:"inputs_json"`
	ProgressJSON string `json:"progress_json" db:"progress_json"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
}

// EnvTemplate is a category/tier keyed workspace scaffold definition.
type EnvTemplate struct {
	ID           int64             `json:"id" db:"id"`
	Category     string            `json:"category" db:"category"`
	Tier         string            `json:"tier" db:"tier"`
	Runtime      string            `json:"runtime" db:"runtime"`
	Dependencies []string          `json:"dependencies" db:"dependencies"`
	Scaffold     map[string]string `json:"scaffold" db:"scaffold"`
	EvalCommand  string            `json:"eval_command" db:"eval_command"`
	UIHints      map[string]string `json:"ui_hints" db:"ui_hints"`
	Created      int64             `json:"created" db:"created"`
}

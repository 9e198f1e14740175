package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error
	Migrate(ctx context.Context) error
	IsInitialized(ctx context.Context) (bool, error)

	// Contact model
	CreateContact(ctx context.Context, create *Contact) (*Contact, error)
	ListContacts(ctx context.Context, find *FindContact) ([]*Contact, error)
	UpdateContact(ctx context.Context, update *UpdateContact) (*Contact, error)
	DeleteContact(ctx context.Context, delete *DeleteContact) error

	// Note model
	CreateNote(ctx context.Context, create *Note) (*Note, error)
	ListNotes(ctx context.Context, find *FindNote) ([]*Note, error)
	UpdateNote(ctx context.Context, update *UpdateNote) (*Note, error)
	DeleteNote(ctx context.Context, delete *DeleteNote) error

	// Interaction model
	CreateInteraction(ctx context.Context, create *Interaction) (*Interaction, error)
	ListInteractions(ctx context.Context, find *FindInteraction) ([]*Interaction, error)
	UpdateInteraction(ctx context.Context, update *UpdateInteraction) (*Interaction, error)
	DeleteInteraction(ctx context.Context, delete *DeleteInteraction) error

	// CalendarEvent model
	CreateCalendarEvent(ctx context.Context, create *CalendarEvent) (*CalendarEvent, error)
	ListCalendarEvents(ctx context.Context, find *FindCalendarEvent) ([]*CalendarEvent, error)
	UpdateCalendarEvent(ctx context.Context, update *UpdateCalendarEvent) (*CalendarEvent, error)
	DeleteCalendarEvent(ctx context.Context, delete *DeleteCalendarEvent) error

	// Task model
	CreateTask(ctx context.Context, create *Task) (*Task, error)
	ListTasks(ctx context.Context, find *FindTask) ([]*Task, error)
	UpdateTask(ctx context.Context, update *UpdateTask) (*Task, error)
	DeleteTask(ctx context.Context, delete *DeleteTask) error

	// Project model
	CreateProject(ctx context.Context, create *Project) (*Project, error)
	ListProjects(ctx context.Context, find *FindProject) ([]*Project, error)
	UpdateProject(ctx context.Context, update *UpdateProject) (*Project, error)
	DeleteProject(ctx context.Context, delete *DeleteProject) error

	// Goal model
	CreateGoal(ctx context.Context, create *Goal) (*Goal, error)
	ListGoals(ctx context.Context, find *FindGoal) ([]*Goal, error)
	UpdateGoal(ctx context.Context, update *UpdateGoal) (*Goal, error)
	DeleteGoal(ctx context.Context, delete *DeleteGoal) error

	// Habit model
	CreateHabit(ctx context.Context, create *Habit) (*Habit, error)
	ListHabits(ctx context.Context, find *FindHabit) ([]*Habit, error)
	UpdateHabit(ctx context.Context, update *UpdateHabit) (*Habit, error)
	DeleteHabit(ctx context.Context, delete *DeleteHabit) error
	UpsertHabitCompletion(ctx context.Context, upsert *UpsertHabitCompletion) (*HabitCompletion, error)
	ListHabitCompletions(ctx context.Context, find *FindHabitCompletion) ([]*HabitCompletion, error)
	DeleteHabitCompletion(ctx context.Context, delete *DeleteHabitCompletion) error

	// Embedding model
	UpsertEmbedding(ctx context.Context, upsert *Embedding) (*Embedding, error)
	ListEmbeddings(ctx context.Context, find *FindEmbedding) ([]*Embedding, error)
	DeleteEmbedding(ctx context.Context, delete *DeleteEmbedding) error

	// Insight model
	CreateInsight(ctx context.Context, create *Insight) (*Insight, error)
	ListInsights(ctx context.Context, find *FindInsight) ([]*Insight, error)
	UpdateInsight(ctx context.Context, update *UpdateInsight) (*Insight, error)
	DeleteInsight(ctx context.Context, delete *DeleteInsight) error

	// Tag model
	UpsertTag(ctx context.Context, upsert *Tag) (*Tag, error)
	ListTags(ctx context.Context, find *FindTag) ([]*Tag, error)
	DeleteTag(ctx context.Context, delete *DeleteTag) error
	AttachContactTag(ctx context.Context, attach *ContactTag) error
	DetachContactTag(ctx context.Context, detach *ContactTag) error

	// Job metadata model
	CreateJob(ctx context.Context, create *Job) (*Job, error)
	ListJobs(ctx context.Context, find *FindJob) ([]*Job, error)
	UpdateJob(ctx context.Context, update *UpdateJob) (*Job, error)
	DeleteJob(ctx context.Context, delete *DeleteJob) error

	// OnboardingToken model
	CreateOnboardingToken(ctx context.Context, create *OnboardingToken) (*OnboardingToken, error)
	ListOnboardingTokens(ctx context.Context, find *FindOnboardingToken) ([]*OnboardingToken, error)
	ConsumeOnboardingToken(ctx context.Context, code string, userID int32) (*OnboardingToken, error)
	DeleteOnboardingToken(ctx context.Context, delete *DeleteOnboardingToken) error

	// IntegrationCredential model
	UpsertIntegrationCredential(ctx context.Context, upsert *IntegrationCredential) (*IntegrationCredential, error)
	ListIntegrationCredentials(ctx context.Context, find *FindIntegrationCredential) ([]*IntegrationCredential, error)
	DeleteIntegrationCredential(ctx context.Context, delete *DeleteIntegrationCredential) error

	// Consent and attachment models
	CreateConsent(ctx context.Context, create *Consent) (*Consent, error)
	ListConsents(ctx context.Context, find *FindConsent) ([]*Consent, error)
	DeleteConsent(ctx context.Context, delete *DeleteConsent) error
	CreateAttachment(ctx context.Context, create *Attachment) (*Attachment, error)
	ListAttachments(ctx context.Context, find *FindAttachment) ([]*Attachment, error)
	DeleteAttachment(ctx context.Context, delete *DeleteAttachment) error

	// Composite transactional write
	CreateContactWithConsent(ctx context.Context, create *CreateContactWithConsent) (*Contact, error)
}

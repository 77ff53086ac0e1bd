package core

type TaskStatus string

const (
	StatusAll       TaskStatus = "all"
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

type SortKey string

const (
	SortCreatedAt SortKey = "created_at" // default, descending
	SortDueDate   SortKey = "due_date"
	SortTitle     SortKey = "title"
)

type ListTasksFilter struct {
	Status TaskStatus `json:"status"`
	Search string     `json:"search"` // substring match on title
	Sort   SortKey    `json:"sort"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

package model

// Priority levels as reported by Todoist. 1 is normal, 4 is urgent.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

// Due describes when a task is due.
type Due struct {
	Date        string `json:"date"`
	String      string `json:"string,omitempty"`
	IsRecurring bool   `json:"is_recurring,omitempty"`
	Datetime    string `json:"datetime,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// Task represents a Todoist task. Tasks are created remotely and are
// read-only here except for closing them.
type Task struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	ProjectID   string `json:"project_id,omitempty"`
	Description string `json:"description,omitempty"`
	Due         *Due   `json:"due,omitempty"`
	Priority    int    `json:"priority,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Project is a named grouping of tasks.
type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
}

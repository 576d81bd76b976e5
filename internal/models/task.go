package models

// Task is a food-sampling campaign users can apply to
type Task struct {
	ID        int64  `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	StoreName string `json:"storeName" yaml:"store_name"`
	Quota     int    `json:"quota" yaml:"quota"`
	Applied   int    `json:"applied" yaml:"applied"`
	Status    string `json:"status" yaml:"status"`
	Deadline  string `json:"deadline" yaml:"deadline"`
}

// TaskPage is a page of tasks with pagination metadata
type TaskPage struct {
	Total int    `json:"total" yaml:"total"`
	Page  int    `json:"page" yaml:"page"`
	List  []Task `json:"list" yaml:"list"`
}

// Report is a sampling report submitted after trying a product
type Report struct {
	ID        int64  `json:"id,omitempty" yaml:"id,omitempty"`
	TaskID    int64  `json:"taskId" yaml:"task_id"`
	Rating    int    `json:"rating" yaml:"rating"`
	Content   string `json:"content" yaml:"content"`
	CreatedAt string `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
}

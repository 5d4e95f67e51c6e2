package transport

type ProjectRequest struct {
	Name string `json:"name"`
}

type TaskCreateRequest struct {
	Title       string `json:"title"`
	Responsible string `json:"responsible"`
	DueDate     string `json:"dueDate"`
	ProjectID   string `json:"projectId"`
}

// TaskUpdateRequest is a partial edit: absent fields are left untouched.
// projectId is accepted for client compatibility and ignored.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Responsible *string `json:"responsible"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
	ProjectID   *string `json:"projectId"`
}

type TaskStatusRequest struct {
	Status string `json:"status"`
}

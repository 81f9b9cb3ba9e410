package request

// CreateProject is the body of POST /api/projects.
type CreateProject struct {
	Name     string `json:"name" validate:"required,notblank,max=255"`
	Status   string `json:"status" validate:"omitempty,max=64"`
	Provider string `json:"provider" validate:"required,max=64"`
}

// UpdateProject is the body of PUT /api/projects/{id}. Only these fields are
// read; id, subnet and createdAt in the body are ignored.
type UpdateProject struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=255"`
	Status   *string `json:"status" validate:"omitempty,max=64"`
	Provider *string `json:"provider" validate:"omitempty,max=64"`
}

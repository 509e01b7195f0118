package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginForm struct {
	Email    string `form:"email"    json:"email"    validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

type googleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type loginResponse struct {
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}

// --- Todos ---

type createTodoRequest struct {
	Title string `form:"title" json:"title" validate:"required,max=500"`
}

type updateTodoRequest struct {
	Title     *string `json:"title,omitempty"     validate:"omitempty,min=1,max=500"`
	Completed *bool   `json:"completed,omitempty"`
}

type toggleTodoForm struct {
	Completed bool `form:"completed"`
}

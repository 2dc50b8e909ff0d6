package api

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse is the body of a successful registration.
type RegisterResponse struct {
	Username string `json:"username"`
}

// LoginResponse is the body of a successful POST /sessions.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateSpaceRequest is the body of POST /spaces.
type CreateSpaceRequest struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// CreateSpaceResponse is the body of a successful space creation.
type CreateSpaceResponse struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// AddMemberRequest is the body of POST /spaces/{spaceId}/members.
type AddMemberRequest struct {
	Username    string `json:"username"`
	Permissions string `json:"permissions"`
}

// AddMemberResponse echoes a successful membership grant.
type AddMemberResponse struct {
	Username    string `json:"username"`
	Permissions string `json:"permissions"`
}

package domain

// Family member roles carried in the JWT. The auth gateway assigns them;
// this service only enforces them.
const (
	RoleParent = "parent"
	RoleChild  = "child"
)

package model

import "time"

const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
)

// ValidRole reports whether role is one of the collaborator roles.
func ValidRole(role string) bool {
	return role == RoleViewer || role == RoleEditor
}

// OwnerInfo is the owner detail attached to document responses.
type OwnerInfo struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	ProfilePic string `json:"profilePic"`
}

// SharedEntry is one collaborator on a document. The owner has implicit full
// access and never appears here.
type SharedEntry struct {
	UserID string `json:"user"`
	Role   string `json:"role"`
}

type Document struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	Owner      OwnerInfo     `json:"owner"`
	SharedWith []SharedEntry `json:"sharedWith"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

type CreateDocRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdateDocRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ShareRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

package service

import "coedit/internal/document/model"

// Permission logic lives here and nowhere else. The owner has implicit full
// access; collaborators get what their role grants.

// canRead reports whether userID may fetch the document: owner or any
// collaborator, regardless of role.
func canRead(doc *model.Document, userID string) bool {
	if doc.Owner.ID == userID {
		return true
	}
	return sharedRole(doc, userID) != ""
}

// canEdit reports whether userID may mutate title/content: owner or a
// collaborator with the editor role.
func canEdit(doc *model.Document, userID string) bool {
	if doc.Owner.ID == userID {
		return true
	}
	return sharedRole(doc, userID) == model.RoleEditor
}

// isOwner gates owner-only mutations (delete, share).
func isOwner(doc *model.Document, userID string) bool {
	return doc.Owner.ID == userID
}

// sharedRole returns userID's collaborator role, or "" if not shared.
func sharedRole(doc *model.Document, userID string) string {
	for _, entry := range doc.SharedWith {
		if entry.UserID == userID {
			return entry.Role
		}
	}
	return ""
}

package service

import (
	"database/sql"
	"strings"

	"coedit/internal/document/model"
	"coedit/internal/document/repository"
	"coedit/pkg/apperr"
	"coedit/socket"

	"github.com/google/uuid"
)

type DocumentService struct {
	Repo *repository.DocumentRepository
	Hub  *socket.Hub
}

func NewDocumentService(repo *repository.DocumentRepository, hub *socket.Hub) *DocumentService {
	return &DocumentService{Repo: repo, Hub: hub}
}

// ListOwned returns the caller's own documents.
func (s *DocumentService) ListOwned(callerID string) ([]model.Document, error) {
	return s.Repo.ListOwned(callerID)
}

// ListSharedWithMe returns documents other users shared with the caller,
// most recently updated first.
func (s *DocumentService) ListSharedWithMe(callerID string) ([]model.Document, error) {
	return s.Repo.ListSharedWith(callerID)
}

// Create inserts a new document owned by the caller with an empty
// collaborator list.
func (s *DocumentService) Create(callerID, title, content string) (*model.Document, error) {
	doc := &model.Document{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		Owner:      model.OwnerInfo{ID: callerID},
		SharedWith: []model.SharedEntry{},
	}
	if err := s.Repo.Create(doc); err != nil {
		return nil, err
	}
	// Re-read so the response carries the owner's name and picture.
	return s.Repo.GetByID(doc.ID)
}

// Get fetches a document. Only the owner and collaborators may read it.
func (s *DocumentService) Get(callerID, docID string) (*model.Document, error) {
	doc, err := s.Repo.GetByID(docID)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Document not found")
	} else if err != nil {
		return nil, err
	}
	if !canRead(doc, callerID) {
		return nil, apperr.Forbidden("You do not have access to this document")
	}
	return doc, nil
}

// Update overwrites title and content. The caller must be the owner or hold
// the editor role. The check-then-write runs under a row lock so concurrent
// share/delete on the same document cannot interleave.
func (s *DocumentService) Update(callerID, docID, title, content string) (*model.Document, error) {
	tx, err := s.Repo.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	doc, err := s.Repo.LockForUpdate(tx, docID)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Document not found")
	} else if err != nil {
		return nil, err
	}
	if !canEdit(doc, callerID) {
		return nil, apperr.Forbidden("You do not have permission to edit this document")
	}

	if err := s.Repo.Update(tx, docID, title, content); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(docID)
}

// Delete removes a document. Owner only. The realtime room for the document
// is evicted so joined connections stop receiving events.
func (s *DocumentService) Delete(callerID, docID string) error {
	tx, err := s.Repo.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	doc, err := s.Repo.LockForUpdate(tx, docID)
	if err == sql.ErrNoRows {
		return apperr.NotFound("Document not found")
	} else if err != nil {
		return err
	}
	if !isOwner(doc, callerID) {
		return apperr.Forbidden("You do not own this document")
	}

	if err := s.Repo.Delete(tx, docID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	if s.Hub != nil {
		s.Hub.EvictDocument(docID)
	}
	return nil
}

// Share appends {targetEmail's user, role} to the document's collaborator
// list. Owner only; duplicate shares conflict; role defaults to viewer.
func (s *DocumentService) Share(callerID, docID, targetEmail, role string) error {
	if role == "" {
		role = model.RoleViewer
	}
	if !model.ValidRole(role) {
		return apperr.Validation("Invalid role. Must be viewer or editor")
	}

	tx, err := s.Repo.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	doc, err := s.Repo.LockForUpdate(tx, docID)
	if err == sql.ErrNoRows {
		return apperr.NotFound("Document not found")
	} else if err != nil {
		return err
	}
	if !isOwner(doc, callerID) {
		return apperr.Forbidden("You do not own this document")
	}

	targetID, err := s.Repo.FindUserIDByEmail(strings.ToLower(strings.TrimSpace(targetEmail)))
	if err == sql.ErrNoRows {
		return apperr.NotFound("User not found")
	} else if err != nil {
		return err
	}

	// The owner is implicitly full-access and never appears in sharedWith.
	if targetID == doc.Owner.ID {
		return apperr.Conflict("Document already shared with this user")
	}
	if sharedRole(doc, targetID) != "" {
		return apperr.Conflict("Document already shared with this user")
	}

	if err := s.Repo.AddCollaborator(tx, docID, targetID, role); err != nil {
		return err
	}
	return tx.Commit()
}

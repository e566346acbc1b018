package repository

import (
	"database/sql"

	"coedit/internal/document/model"
	"coedit/pkg/logger"
)

// querier is satisfied by both *sql.DB and *sql.Tx so collaborator loading
// works inside and outside a transaction.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type DocumentRepository struct {
	DB *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

// Begin starts a transaction for read-modify-write sequences on a document.
func (r *DocumentRepository) Begin() (*sql.Tx, error) {
	return r.DB.Begin()
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	err := r.DB.QueryRow(`INSERT INTO documents (id, title, content, owner_id, created_at, updated_at) VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING created_at, updated_at`,
		doc.ID, doc.Title, doc.Content, doc.Owner.ID).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to create document: %v", err)
	}
	return err
}

// GetByID loads a document with its owner info and collaborator list.
// Returns sql.ErrNoRows if the document does not exist.
func (r *DocumentRepository) GetByID(docID string) (*model.Document, error) {
	var doc model.Document
	err := r.DB.QueryRow(`SELECT d.id, d.title, d.content, d.owner_id, u.full_name, u.profile_pic, d.created_at, d.updated_at FROM documents d JOIN users u ON u.id = d.owner_id WHERE d.id = $1`, docID).
		Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Owner.ID, &doc.Owner.FullName, &doc.Owner.ProfilePic, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Sugar.Errorf("Failed to get document %s: %v", docID, err)
		}
		return nil, err
	}
	doc.SharedWith, err = loadSharedWith(r.DB, docID)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListOwned returns every document owned by userID, most recently updated
// first, with owner info attached.
func (r *DocumentRepository) ListOwned(userID string) ([]model.Document, error) {
	return r.listDocuments(`SELECT d.id, d.title, d.content, d.owner_id, u.full_name, u.profile_pic, d.created_at, d.updated_at FROM documents d JOIN users u ON u.id = d.owner_id WHERE d.owner_id = $1 ORDER BY d.updated_at DESC`, userID)
}

// ListSharedWith returns every document shared with userID, most recently
// updated first.
func (r *DocumentRepository) ListSharedWith(userID string) ([]model.Document, error) {
	return r.listDocuments(`SELECT d.id, d.title, d.content, d.owner_id, u.full_name, u.profile_pic, d.created_at, d.updated_at FROM documents d JOIN users u ON u.id = d.owner_id JOIN collaborators c ON c.document_id = d.id WHERE c.user_id = $1 ORDER BY d.updated_at DESC`, userID)
}

func (r *DocumentRepository) listDocuments(query, userID string) ([]model.Document, error) {
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		logger.Sugar.Errorf("Failed to list documents for user %s: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Owner.ID, &doc.Owner.FullName, &doc.Owner.ProfilePic, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		if doc.SharedWith, err = loadSharedWith(r.DB, doc.ID); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// LockForUpdate reads a document row FOR UPDATE inside tx, so concurrent
// conditional mutations on the same document serialize. Owner name fields
// are not populated; callers only need owner_id for permission checks.
func (r *DocumentRepository) LockForUpdate(tx *sql.Tx, docID string) (*model.Document, error) {
	var doc model.Document
	err := tx.QueryRow(`SELECT id, title, content, owner_id, created_at, updated_at FROM documents WHERE id = $1 FOR UPDATE`, docID).
		Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Owner.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Sugar.Errorf("Failed to lock document %s: %v", docID, err)
		}
		return nil, err
	}
	doc.SharedWith, err = loadSharedWith(tx, docID)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) Update(tx *sql.Tx, docID, title, content string) error {
	_, err := tx.Exec(`UPDATE documents SET title = $1, content = $2, updated_at = NOW() WHERE id = $3`, title, content, docID)
	if err != nil {
		logger.Sugar.Errorf("Failed to update document %s: %v", docID, err)
	}
	return err
}

func (r *DocumentRepository) Delete(tx *sql.Tx, docID string) error {
	if _, err := tx.Exec(`DELETE FROM collaborators WHERE document_id = $1`, docID); err != nil {
		logger.Sugar.Errorf("Failed to delete collaborators for doc %s: %v", docID, err)
		return err
	}
	_, err := tx.Exec(`DELETE FROM documents WHERE id = $1`, docID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete doc %s: %v", docID, err)
	}
	return err
}

func (r *DocumentRepository) AddCollaborator(tx *sql.Tx, docID, userID, role string) error {
	_, err := tx.Exec(`INSERT INTO collaborators (document_id, user_id, role, added_at) VALUES ($1, $2, $3, NOW())`, docID, userID, role)
	if err != nil {
		logger.Sugar.Errorf("Failed to add collaborator %s to doc %s: %v", userID, docID, err)
	}
	return err
}

// FindUserIDByEmail resolves a share target. Returns sql.ErrNoRows for an
// unknown email.
func (r *DocumentRepository) FindUserIDByEmail(email string) (string, error) {
	var userID string
	err := r.DB.QueryRow(`SELECT id FROM users WHERE email = $1`, email).Scan(&userID)
	if err != nil && err != sql.ErrNoRows {
		logger.Sugar.Errorf("Failed to find user by email: %v", err)
	}
	return userID, err
}

// loadSharedWith returns the collaborator list in insertion order.
func loadSharedWith(q querier, docID string) ([]model.SharedEntry, error) {
	rows, err := q.Query(`SELECT user_id, role FROM collaborators WHERE document_id = $1 ORDER BY added_at`, docID)
	if err != nil {
		logger.Sugar.Errorf("Failed to load collaborators for doc %s: %v", docID, err)
		return nil, err
	}
	defer rows.Close()

	shared := []model.SharedEntry{}
	for rows.Next() {
		var entry model.SharedEntry
		if err := rows.Scan(&entry.UserID, &entry.Role); err != nil {
			return nil, err
		}
		shared = append(shared, entry)
	}
	return shared, rows.Err()
}

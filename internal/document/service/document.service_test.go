package service

import (
	"database/sql"
	"testing"
	"time"

	"coedit/internal/document/model"
	"coedit/internal/document/repository"
	"coedit/pkg/apperr"
	"coedit/socket"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	getDocQuery    = `SELECT d.id, d.title, d.content, d.owner_id, u.full_name, u.profile_pic, d.created_at, d.updated_at FROM documents d JOIN users u ON u.id = d.owner_id WHERE d.id = \$1`
	lockDocQuery   = `SELECT id, title, content, owner_id, created_at, updated_at FROM documents WHERE id = \$1 FOR UPDATE`
	sharesQuery    = `SELECT user_id, role FROM collaborators WHERE document_id = \$1 ORDER BY added_at`
	userByEmail    = `SELECT id FROM users WHERE email = \$1`
	insertCollab   = `INSERT INTO collaborators`
	updateDocQuery = `UPDATE documents SET title = \$1, content = \$2`
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newDocService(t *testing.T) (*DocumentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hub := socket.NewHub()
	go hub.Run()

	return NewDocumentService(repository.NewDocumentRepository(db), hub), mock
}

func docRow(id, title, content, ownerID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "content", "owner_id", "full_name", "profile_pic", "created_at", "updated_at"}).
		AddRow(id, title, content, ownerID, "Ann", "https://i.pravatar.cc/150", testTime, testTime)
}

func lockedDocRow(id, title, content, ownerID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "content", "owner_id", "created_at", "updated_at"}).
		AddRow(id, title, content, ownerID, testTime, testTime)
}

func sharesRows(entries ...model.SharedEntry) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"user_id", "role"})
	for _, e := range entries {
		rows.AddRow(e.UserID, e.Role)
	}
	return rows
}

func expectGetDoc(mock sqlmock.Sqlmock, id, title, content, ownerID string, shared ...model.SharedEntry) {
	mock.ExpectQuery(getDocQuery).WithArgs(id).WillReturnRows(docRow(id, title, content, ownerID))
	mock.ExpectQuery(sharesQuery).WithArgs(id).WillReturnRows(sharesRows(shared...))
}

func expectLockDoc(mock sqlmock.Sqlmock, id, title, content, ownerID string, shared ...model.SharedEntry) {
	mock.ExpectQuery(lockDocQuery).WithArgs(id).WillReturnRows(lockedDocRow(id, title, content, ownerID))
	mock.ExpectQuery(sharesQuery).WithArgs(id).WillReturnRows(sharesRows(shared...))
}

func TestCreateReturnsDocumentOwnedByCaller(t *testing.T) {
	svc, mock := newDocService(t)

	// The document id is generated inside Create, so the re-read mocks
	// match on the query alone and echo the inserted values back.
	mock.ExpectQuery(`INSERT INTO documents`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(testTime, testTime))
	mock.ExpectQuery(getDocQuery).WillReturnRows(docRow("d1", "Notes", "hello", "u1"))
	mock.ExpectQuery(sharesQuery).WillReturnRows(sharesRows())

	doc, err := svc.Create("u1", "Notes", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Notes", doc.Title)
	assert.Equal(t, "hello", doc.Content)
	assert.Equal(t, "u1", doc.Owner.ID)
	assert.Empty(t, doc.SharedWith)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReturnsDocumentToOwner(t *testing.T) {
	svc, mock := newDocService(t)

	expectGetDoc(mock, "d1", "Notes", "hello", "u1")

	doc, err := svc.Get("u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", doc.ID)
	assert.Equal(t, "Notes", doc.Title)
	assert.Equal(t, "hello", doc.Content)
	assert.Equal(t, "u1", doc.Owner.ID)
	assert.Empty(t, doc.SharedWith)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissingDocumentIsNotFound(t *testing.T) {
	svc, mock := newDocService(t)

	mock.ExpectQuery(getDocQuery).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := svc.Get("u1", "nope")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForbiddenForStranger(t *testing.T) {
	svc, mock := newDocService(t)

	expectGetDoc(mock, "d1", "Notes", "hello", "u1",
		model.SharedEntry{UserID: "u2", Role: model.RoleViewer})

	_, err := svc.Get("u3", "d1")
	require.Error(t, err)
	assert.True(t, apperr.IsForbidden(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllowedForViewerCollaborator(t *testing.T) {
	svc, mock := newDocService(t)

	expectGetDoc(mock, "d1", "Notes", "hello", "u1",
		model.SharedEntry{UserID: "u2", Role: model.RoleViewer})

	doc, err := svc.Get("u2", "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", doc.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateByEditorCollaborator(t *testing.T) {
	svc, mock := newDocService(t)

	mock.ExpectBegin()
	expectLockDoc(mock, "d1", "Notes", "hello", "u1",
		model.SharedEntry{UserID: "u2", Role: model.RoleEditor})
	mock.ExpectExec(updateDocQuery).WithArgs("Notes v2", "hello world", "d1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectGetDoc(mock, "d1", "Notes v2", "hello world", "u1",
		model.SharedEntry{UserID: "u2", Role: model.RoleEditor})

	doc, err := svc.Update("u2", "d1", "Notes v2", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "Notes v2", doc.Title)
	assert.Equal(t, "hello world", doc.Content)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateByViewerIsForbidden(t *testing.T) {
	svc, mock := newDocService(t)

	mock.ExpectBegin()
	expectLockDoc(mock, "d1", "Notes", "hello", "u1",
		model.SharedEntry{UserID: "u2", Role: model.RoleViewer})
	mock.ExpectRollback()

	_, err := svc.Update("u2", "d1", "x", "y")
	require.Error(t, err)
	assert.True(t, apperr.IsForbidden(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingDocumentIsNotFound(t *testing.T) {
	svc, mock := newDocService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockDocQuery).WithArgs("nope").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Update("u1", "nope", "x", "y")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByNonOwnerIsForbidden(t *testing.T) {
	svc, mock := newDocService(t)

	mock.ExpectBegin()
	expectLockDoc(mock, "d1", "Notes", "hello", "u1",
		model.SharedEntry{UserID: "u2", Role: model.RoleEditor})
	mock.ExpectRollback()

	// Even an editor collaborator may not delete.
	err := svc.Delete("u2", "d1")
	require.Error(t, err)
	assert.True(t, apperr.IsForbidden(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByOwnerSucceeds(t *testing.T) {
	svc, mock := newDocService(t)

	mock.ExpectBegin()
	expectLockDoc(mock, "d1", "Notes", "hello", "u1")
	mock.ExpectExec(`DELETE FROM collaborators`).WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM documents`).WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Delete("u1", "d1"))

	// A subsequent get fails NotFound.
	mock.ExpectQuery(getDocQuery).WithArgs("d1").WillReturnError(sql.ErrNoRows)
	_, err := svc.Get("u1", "d1")
	assert.True(t, apperr.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareAppendsCollaboratorWithDefaultRole(t *testing.T) {
	svc, mock := newDocService(t)

	mock.ExpectBegin()
	expectLockDoc(mock, "d1", "Notes", "hello", "u1")
	mock.ExpectQuery(userByEmail).WithArgs("b@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u2"))
	mock.ExpectExec(insertCollab).WithArgs("d1", "u2", model.RoleViewer).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Empty role defaults to viewer.
	require.NoError(t, svc.Share("u1", "d1", "B@x.com", ""))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareDuplicateIsConflict(t *testing.T) {
	svc, mock := newDocService(t)

	mock.ExpectBegin()
	expectLockDoc(mock, "d1", "Notes", "hello", "u1",
		model.SharedEntry{UserID: "u2", Role: model.RoleEditor})
	mock.ExpectQuery(userByEmail).WithArgs("b@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u2"))
	mock.ExpectRollback()

	// Second share with the same target: Conflict, no insert.
	err := svc.Share("u1", "d1", "b@x.com", model.RoleEditor)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareWithOwnerIsConflict(t *testing.T) {
	svc, mock := newDocService(t)

	mock.ExpectBegin()
	expectLockDoc(mock, "d1", "Notes", "hello", "u1")
	mock.ExpectQuery(userByEmail).WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))
	mock.ExpectRollback()

	err := svc.Share("u1", "d1", "a@x.com", model.RoleViewer)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareByNonOwnerIsForbidden(t *testing.T) {
	svc, mock := newDocService(t)

	mock.ExpectBegin()
	expectLockDoc(mock, "d1", "Notes", "hello", "u1",
		model.SharedEntry{UserID: "u2", Role: model.RoleEditor})
	mock.ExpectRollback()

	err := svc.Share("u2", "d1", "c@x.com", model.RoleViewer)
	require.Error(t, err)
	assert.True(t, apperr.IsForbidden(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareUnknownTargetIsNotFound(t *testing.T) {
	svc, mock := newDocService(t)

	mock.ExpectBegin()
	expectLockDoc(mock, "d1", "Notes", "hello", "u1")
	mock.ExpectQuery(userByEmail).WithArgs("ghost@x.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := svc.Share("u1", "d1", "ghost@x.com", model.RoleViewer)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareRejectsInvalidRole(t *testing.T) {
	svc, mock := newDocService(t)

	err := svc.Share("u1", "d1", "b@x.com", "admin")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

package handler

import (
	"encoding/json"
	"net/http"

	"coedit/internal/document/model"
	"coedit/internal/document/service"
	"coedit/middleware"
	"coedit/pkg/apperr"
	"coedit/pkg/httpjson"
	"coedit/pkg/logger"
)

type DocumentHandler struct {
	Service *service.DocumentService
}

func NewDocumentHandler(service *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: service}
}

func callerID(r *http.Request) string {
	return r.Context().Value(middleware.UserIDKey).(string)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Service.ListOwned(callerID(r))
	if err != nil {
		logger.Sugar.Errorf("Error fetching documents: %v", err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, docs)
}

func (h *DocumentHandler) ListSharedDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Service.ListSharedWithMe(callerID(r))
	if err != nil {
		logger.Sugar.Errorf("Error fetching shared documents: %v", err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, docs)
}

func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, apperr.Validation("Invalid request body"))
		return
	}
	if req.Title == "" {
		httpjson.Error(w, apperr.Validation("Title is required"))
		return
	}

	doc, err := h.Service.Create(callerID(r), req.Title, req.Content)
	if err != nil {
		logger.Sugar.Errorf("Error creating document: %v", err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Get(callerID(r), r.PathValue("id"))
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, doc)
}

func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateDocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, apperr.Validation("Invalid request body"))
		return
	}
	if req.Title == "" {
		httpjson.Error(w, apperr.Validation("Title is required"))
		return
	}

	doc, err := h.Service.Update(callerID(r), r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		logger.Sugar.Errorf("Error updating document: %v", err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, doc)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(callerID(r), r.PathValue("id")); err != nil {
		logger.Sugar.Errorf("Error deleting document: %v", err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}

func (h *DocumentHandler) ShareDocument(w http.ResponseWriter, r *http.Request) {
	var req model.ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, apperr.Validation("Invalid request body"))
		return
	}
	if req.Email == "" {
		httpjson.Error(w, apperr.Validation("Email is required"))
		return
	}

	if err := h.Service.Share(callerID(r), r.PathValue("id"), req.Email, req.Role); err != nil {
		logger.Sugar.Errorf("Error sharing document: %v", err)
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Document shared successfully"})
}

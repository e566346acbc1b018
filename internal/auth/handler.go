package handler

import (
	"encoding/json"
	"net/http"

	"coedit/internal/auth/model"
	"coedit/internal/auth/service"
	"coedit/pkg/apperr"
	"coedit/pkg/httpjson"
	"coedit/pkg/logger"
)

type AuthHandler struct {
	Service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{Service: service}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, apperr.Validation("Invalid request body"))
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		httpjson.Error(w, apperr.Validation("fullName, email and password are required"))
		return
	}

	resp, err := h.Service.Signup(req)
	if err != nil {
		logger.Sugar.Errorf("Signup failed: %v", err)
		httpjson.Error(w, err)
		return
	}

	logger.Sugar.Infof("User created successfully: %s", resp.UserID)
	httpjson.Write(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, apperr.Validation("Invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, apperr.Validation("email and password are required"))
		return
	}

	resp, err := h.Service.Login(req)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	httpjson.Write(w, http.StatusOK, resp)
}

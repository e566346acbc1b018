package router

import (
	"database/sql"
	"net/http"

	authHandler "coedit/internal/auth"
	authRepo "coedit/internal/auth/repository"
	authService "coedit/internal/auth/service"
	docHandler "coedit/internal/document"
	docRepo "coedit/internal/document/repository"
	docService "coedit/internal/document/service"
	"coedit/middleware"
	"coedit/pkg/httpjson"
	"coedit/socket"
)

func Setup(db *sql.DB, hub *socket.Hub) http.Handler {
	mux := http.NewServeMux()

	// WebSocket. The handshake requires a valid token; rooms are joined via
	// join-document events on the open connection.
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(middleware.UserIDKey).(string)
		socket.ServeWs(hub, w, r, userID)
	})
	mux.Handle("/ws", middleware.AuthMiddleware(wsHandler))

	// REST API
	auth := authHandler.NewAuthHandler(authService.NewAuthService(authRepo.NewUserRepository(db)))
	docs := docHandler.NewDocumentHandler(docService.NewDocumentService(docRepo.NewDocumentRepository(db), hub))
	protect := middleware.AuthMiddleware

	mux.HandleFunc("GET /api/{$}", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]string{"message": "Welcome to the Shared Document Editor API"})
	})

	mux.Handle("POST /api/signup", http.HandlerFunc(auth.Signup))
	mux.Handle("POST /api/login", http.HandlerFunc(auth.Login))

	mux.Handle("GET /api/documents", protect(http.HandlerFunc(docs.ListDocuments)))
	mux.Handle("POST /api/documents", protect(http.HandlerFunc(docs.CreateDocument)))
	mux.Handle("GET /api/documents/{id}", protect(http.HandlerFunc(docs.GetDocument)))
	mux.Handle("PUT /api/documents/{id}", protect(http.HandlerFunc(docs.UpdateDocument)))
	mux.Handle("DELETE /api/documents/{id}", protect(http.HandlerFunc(docs.DeleteDocument)))
	mux.Handle("POST /api/documents/{id}/share", protect(http.HandlerFunc(docs.ShareDocument)))
	mux.Handle("GET /api/shared-documents", protect(http.HandlerFunc(docs.ListSharedDocuments)))

	return middleware.CORSMiddleware(mux)
}

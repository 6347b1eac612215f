package httpapi

import "net/http"

// routes wires every endpoint to its handler. Everything except sign-in and
// ping requires a valid session; task creation, cancellation, manual ledger
// entries, and document uploads additionally require an admin session.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", s.handlePing)

	mux.HandleFunc("POST /auth/code", s.handleRequestCode)
	mux.HandleFunc("POST /auth/verify", s.handleVerifyCode)
	mux.HandleFunc("POST /auth/logout", s.withSession(s.handleLogout))

	mux.HandleFunc("POST /tasks", s.requireAdmin(s.handleCreateTask))
	mux.HandleFunc("GET /tasks", s.withSession(s.handleListTasks))
	mux.HandleFunc("GET /tasks/{id}", s.withSession(s.handleGetTask))
	mux.HandleFunc("POST /tasks/{id}/claim", s.withSession(s.handleClaimTask))
	mux.HandleFunc("POST /tasks/{id}/advance", s.withSession(s.handleAdvanceTask))
	mux.HandleFunc("POST /tasks/{id}/cancel", s.withSession(s.handleCancelTask))

	mux.HandleFunc("GET /balance", s.withSession(s.handleBalance))
	mux.HandleFunc("GET /transactions", s.withSession(s.handleTransactions))
	mux.HandleFunc("POST /transactions", s.requireAdmin(s.handleRecordTransaction))

	mux.HandleFunc("POST /documents", s.requireAdmin(s.handleCreateDocument))
	mux.HandleFunc("GET /documents", s.withSession(s.handleListDocuments))
	mux.HandleFunc("GET /documents/{id}/url", s.withSession(s.handleDocumentURL))

	mux.HandleFunc("GET /events", s.withSession(s.handleEvents))

	return mux
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"publicindex/internal/ratelimit"
	"publicindex/internal/util"
	"publicindex/pkg/auth"
	"publicindex/pkg/domain"
	"publicindex/services/library/internal/app"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App            *app.App
	Sessions       *auth.SessionIssuer
	AuthLimiter    *ratelimit.FixedWindowLimiter
	SubmitLimiter  *ratelimit.FixedWindowLimiter
	TrustedProxies *util.TrustedProxies
	MaxUploadBytes int64
}

// Server exposes the HTTP endpoints of the library service.
type Server struct {
	app            *app.App
	sessions       *auth.SessionIssuer
	authLimiter    *ratelimit.FixedWindowLimiter
	submitLimiter  *ratelimit.FixedWindowLimiter
	proxies        *util.TrustedProxies
	mux            *http.ServeMux
	maxUploadBytes int64
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	maxUploadBytes := cfg.MaxUploadBytes
	if maxUploadBytes <= 0 {
		maxUploadBytes = 50 * 1024 * 1024
	}
	s := &Server{
		app:            cfg.App,
		sessions:       cfg.Sessions,
		authLimiter:    cfg.AuthLimiter,
		submitLimiter:  cfg.SubmitLimiter,
		proxies:        cfg.TrustedProxies,
		mux:            http.NewServeMux(),
		maxUploadBytes: maxUploadBytes,
	}
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// accounts
	s.mux.HandleFunc("/auth/register", s.handleRegister)
	s.mux.HandleFunc("/auth/login", s.handleLogin)
	s.mux.Handle("/auth/me", s.withUser(s.handleMe))

	// catalog
	s.mux.Handle("/books", s.withUser(s.handleBooks))
	s.mux.Handle("/books/", s.withUser(s.handleBookByID))
	s.mux.Handle("/admin/books", s.withUser(s.handleAdminUpload))

	// submission pipeline
	s.mux.Handle("/submissions", s.withUser(s.handleSubmissions))
	s.mux.Handle("/submissions/", s.withUser(s.handleSubmissionByID))

	// categories
	s.mux.Handle("/categories", s.withUser(s.handleCategories))
	s.mux.Handle("/categories/", s.withUser(s.handleCategoryByID))

	// study groups
	s.mux.Handle("/groups", s.withUser(s.handleGroups))
	s.mux.Handle("/groups/", s.withUser(s.handleGroupByID))
	s.mux.Handle("/me/groups", s.withUser(s.handleMyGroups))

	// annotations
	s.mux.Handle("/layers/", s.withUser(s.handleLayerByID))
	s.mux.Handle("/annotations/", s.withUser(s.handleAnnotationByID))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type userHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) withUser(next userHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		userID, err := s.sessions.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		user, ok, err := s.app.GetUser(userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

// account handlers

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AdminCode string `json:"adminCode"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.authLimiter, "too many registration attempts") {
		return
	}
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.app.Register(app.RegisterParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AdminCode: req.AdminCode,
	})
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.authLimiter, "too many login attempts") {
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := s.app.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// catalog handlers

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	books, err := s.app.SearchEbooks(q.Get("q"), q.Get("category"))
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": books,
		"count": len(books),
	})
}

// /books/{id}, /books/{id}/read, /books/{id}/download, /books/{id}/layers,
// /books/{id}/ask
func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	path := strings.TrimPrefix(r.URL.Path, "/books/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		notFound(w, "not found")
		return
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "read":
			s.handlePresign(w, r, id, s.app.ReadURL)
		case "download":
			s.handlePresign(w, r, id, s.app.DownloadURL)
		case "layers":
			s.handleBookLayers(w, r, user, id)
		case "ask":
			s.handleAsk(w, r, id)
		default:
			notFound(w, "not found")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		book, ok, err := s.app.GetEbook(id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		if !ok {
			notFound(w, "book not found")
			return
		}
		writeJSON(w, http.StatusOK, book)
	case http.MethodPatch:
		var req editBookRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		book, err := s.app.UpdateEbook(r.Context(), user, id, app.EditParams{
			Title:      req.Title,
			Author:     req.AuthorName,
			CategoryID: req.CategoryID,
			CoverURL:   req.CoverImageURL,
		})
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	case http.MethodDelete:
		if err := s.app.DeleteEbook(r.Context(), user, id); err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

type editBookRequest struct {
	Title         string `json:"title"`
	AuthorName    string `json:"authorName"`
	CategoryID    string `json:"categoryId"`
	CoverImageURL string `json:"coverImageUrl"`
}

func (s *Server) handlePresign(w http.ResponseWriter, r *http.Request, id string, presign func(ctx context.Context, ebookID string) (string, error)) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	url, err := presign(r.Context(), id)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleBookLayers(w http.ResponseWriter, r *http.Request, user domain.User, ebookID string) {
	switch r.Method {
	case http.MethodGet:
		layers, err := s.app.ListVisibleLayers(user, ebookID)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": layers,
			"count": len(layers),
		})
	case http.MethodPost:
		var req layerRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		layer, err := s.app.CreateLayer(user, ebookID, app.LayerParams{
			Name:        req.Name,
			Description: req.Description,
			GroupID:     req.GroupID,
		})
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, layer)
	default:
		methodNotAllowed(w)
	}
}

type layerRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	GroupID     string `json:"studyGroupId"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request, ebookID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	answer, err := s.app.AskAI(r.Context(), ebookID, strings.TrimSpace(req.Question))
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (s *Server) handleAdminUpload(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	data, filename, form, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	book, err := s.app.AdminUploadBook(r.Context(), user, app.UploadParams{
		Title:      form.Get("title"),
		Author:     form.Get("author"),
		Filename:   filename,
		Data:       data,
		CategoryID: form.Get("categoryId"),
		CoverURL:   form.Get("coverUrl"),
	})
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// submission handlers

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		subs, err := s.app.ListPendingSubmissions(user)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": subs,
			"count": len(subs),
		})
	case http.MethodPost:
		if !s.allowRate(w, r, s.submitLimiter, "too many submissions") {
			return
		}
		data, filename, form, ok := s.readUpload(w, r)
		if !ok {
			return
		}
		res, err := s.app.SubmitBook(r.Context(), user, form.Get("title"), form.Get("author"), filename, data)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		if res.Published {
			writeJSON(w, http.StatusCreated, map[string]any{
				"published": true,
				"book":      res.Ebook,
			})
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"published":  false,
			"submission": res.Submission,
		})
	default:
		methodNotAllowed(w)
	}
}

// /submissions/{id}/file, /submissions/{id}/approve, /submissions/{id}/reject
func (s *Server) handleSubmissionByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	path := strings.TrimPrefix(r.URL.Path, "/submissions/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" || len(parts) != 2 {
		notFound(w, "not found")
		return
	}
	switch parts[1] {
	case "file":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		url, err := s.app.SubmissionFileURL(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": url})
	case "approve":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		var req struct {
			CategoryID string `json:"categoryId"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		book, err := s.app.ApproveSubmission(r.Context(), user, id, req.CategoryID)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	case "reject":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		if err := s.app.RejectSubmission(r.Context(), user, id); err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
	default:
		notFound(w, "not found")
	}
}

// category handlers

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		categories, err := s.app.ListCategories()
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": categories,
			"count": len(categories),
		})
	case http.MethodPost:
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		category, err := s.app.CreateCategory(user, req.Name, req.Description)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, category)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/categories/")
	if id == "" || strings.Contains(id, "/") {
		notFound(w, "not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	if err := s.app.DeleteCategory(user, id); err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// study group handlers

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		groups, err := s.app.SearchGroups(user, r.URL.Query().Get("q"))
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": groups,
			"count": len(groups),
		})
	case http.MethodPost:
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		group, err := s.app.CreateGroup(user, req.Name, req.Description)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, group)
	default:
		methodNotAllowed(w)
	}
}

// /groups/{id}, /groups/{id}/join, /groups/{id}/leave
func (s *Server) handleGroupByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	path := strings.TrimPrefix(r.URL.Path, "/groups/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		notFound(w, "not found")
		return
	}
	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		switch parts[1] {
		case "join":
			if err := s.app.JoinGroup(user, id); err != nil {
				s.writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
		case "leave":
			if err := s.app.LeaveGroup(user, id); err != nil {
				s.writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
		default:
			notFound(w, "not found")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		detail, err := s.app.GetGroupDetail(user, id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	case http.MethodDelete:
		if err := s.app.DeleteGroup(user, id); err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleMyGroups(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	groups, err := s.app.MyGroups(user)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": groups,
		"count": len(groups),
	})
}

// annotation handlers

// /layers/{id}/annotations
func (s *Server) handleLayerByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	path := strings.TrimPrefix(r.URL.Path, "/layers/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" || len(parts) != 2 || parts[1] != "annotations" {
		notFound(w, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		notes, err := s.app.ListAnnotations(user, id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": notes,
			"count": len(notes),
		})
	case http.MethodPost:
		var req struct {
			Content         string `json:"content"`
			HighlightedText string `json:"highlightedText"`
			PositionData    string `json:"positionData"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		note, err := s.app.CreateAnnotation(user, id, app.AnnotationParams{
			Content:         req.Content,
			HighlightedText: req.HighlightedText,
			PositionData:    req.PositionData,
		})
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, note)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAnnotationByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/annotations/")
	if id == "" || strings.Contains(id, "/") {
		notFound(w, "not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	if err := s.app.DeleteAnnotation(user, id); err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// helpers

// readUpload parses a multipart upload and returns the file bytes, the client
// filename, and the remaining form values.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, url.Values, bool) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return nil, "", nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return nil, "", nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "file too large")
		return nil, "", nil, false
	}
	return data, header.Filename, url.Values(r.MultipartForm.Value), true
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	if limiter == nil {
		return true
	}
	key := r.URL.Path + "|" + util.ClientIP(r, s.proxies)
	if limiter.Allow(key) {
		return true
	}
	retryAfter := int(limiter.Window().Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

// writeAppError maps application errors onto HTTP status codes.
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var serr *domain.StorageError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &serr):
		writeError(w, http.StatusBadGateway, "storage unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func notFound(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusNotFound, msg)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      errorCodeForLibrary(status, msg),
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	})
}

func errorCodeForLibrary(status int, msg string) string {
	message := strings.ToLower(strings.TrimSpace(msg))
	switch {
	case message == "unauthorized":
		return "AUTH_INVALID_TOKEN"
	case message == "invalid credentials":
		return "AUTH_INVALID_CREDENTIALS"
	case message == "forbidden":
		return "LIBRARY_FORBIDDEN"
	case message == "book not found":
		return "LIBRARY_BOOK_NOT_FOUND"
	case message == "file too large":
		return "LIBRARY_FILE_TOO_LARGE"
	case strings.Contains(message, "file is required"):
		return "LIBRARY_FILE_REQUIRED"
	case message == "invalid form data":
		return "LIBRARY_INVALID_UPLOAD_FORM"
	case message == "invalid json body":
		return "LIBRARY_INVALID_REQUEST"
	case message == "storage unavailable":
		return "LIBRARY_STORAGE_UNAVAILABLE"
	case strings.HasPrefix(message, "too many"):
		return "SYSTEM_RATE_LIMITED"
	case message == "method not allowed":
		return "SYSTEM_METHOD_NOT_ALLOWED"
	case message == "not found":
		return "SYSTEM_NOT_FOUND"
	}

	switch status {
	case http.StatusBadRequest:
		return "LIBRARY_INVALID_REQUEST"
	case http.StatusUnauthorized:
		return "AUTH_INVALID_TOKEN"
	case http.StatusForbidden:
		return "LIBRARY_FORBIDDEN"
	case http.StatusNotFound:
		return "LIBRARY_NOT_FOUND"
	case http.StatusConflict:
		return "LIBRARY_CONFLICT"
	case http.StatusMethodNotAllowed:
		return "SYSTEM_METHOD_NOT_ALLOWED"
	default:
		if status >= http.StatusInternalServerError {
			return "SYSTEM_INTERNAL_ERROR"
		}
		return "REQUEST_ERROR"
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

// Package web exposes the HTTP surface consuming the catalog and auth services.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abelikov/gameshelf/internal/access"
	"github.com/abelikov/gameshelf/internal/errs"
	"github.com/abelikov/gameshelf/internal/model"
	"github.com/abelikov/gameshelf/internal/service"
)

const sessionCookie = "gameshelf_session"

// Server wires services into HTTP handlers.
type Server struct {
	auth    service.AuthService
	catalog service.CatalogService
	policy  *access.Policy
	auditor *access.Auditor
	log     *zap.Logger
}

// New constructs a server with injected services and policy.
func New(auth service.AuthService, catalog service.CatalogService, policy *access.Policy, auditor *access.Auditor, log *zap.Logger) *Server {
	return &Server{auth: auth, catalog: catalog, policy: policy, auditor: auditor, log: log}
}

// Router builds the route table with the full middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(Recover(s.log))
	r.Use(RequestLog(s.log))
	r.Use(s.Guard)

	r.Get("/boardgames", s.listGames)
	r.Post("/boardgames", s.addGame)
	r.Get("/boardgames/{id}", s.getGame)
	r.Get("/boardgames/{id}/reviews", s.listReviews)

	r.Get("/reviews/{id}", s.getReview)
	r.Post("/secured/reviews", s.saveReview)
	r.Delete("/secured/reviews/{id}", s.deleteReview)

	r.Get("/roles", s.listRoles)
	r.Post("/users", s.addUser)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)

	r.Get("/secured", s.area("secured gateway"))
	r.Get("/user", s.area("user area"))
	r.Get("/manager", s.area("manager area"))
	r.Get("/login", s.loginPrompt)
	r.Get("/permission-denied", s.denied)

	return r
}

// --- catalog ---

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.catalog.ListGames(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if games == nil {
		games = []model.Game{}
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	g, err := s.catalog.GetGame(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) addGame(w http.ResponseWriter, r *http.Request) {
	var g model.Game
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		s.writeErr(w, fmt.Errorf("%w: %v", errs.ErrInvalidInput, err))
		return
	}
	id, err := s.catalog.AddGame(r.Context(), &g)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	g.ID = id
	w.Header().Set("Location", fmt.Sprintf("/boardgames/%d", id))
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	reviews, err := s.catalog.ListReviews(r.Context(), id)
	if errors.Is(err, errs.ErrNotFound) {
		// distinct from an empty list: the game has no reviews at all
		writeJSON(w, http.StatusOK, map[string]any{"gameId": id, "reviews": nil, "message": "no reviews yet"})
		return
	}
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gameId": id, "reviews": reviews})
}

func (s *Server) getReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	rv, err := s.catalog.GetReview(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

// saveReview creates a review when no id is supplied and edits the body in
// place otherwise, mirroring the single form endpoint of the UI.
func (s *Server) saveReview(w http.ResponseWriter, r *http.Request) {
	var rv model.Review
	if err := json.NewDecoder(r.Body).Decode(&rv); err != nil {
		s.writeErr(w, fmt.Errorf("%w: %v", errs.ErrInvalidInput, err))
		return
	}
	if rv.ID != 0 {
		affected, err := s.catalog.EditReview(r.Context(), rv.ID, rv.Text)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"gameId": rv.GameID, "id": rv.ID, "affected": affected})
		return
	}
	id, err := s.catalog.AddReview(r.Context(), &rv)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	rv.ID = id
	writeJSON(w, http.StatusCreated, rv)
}

func (s *Server) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	gameID, affected, err := s.catalog.DeleteReview(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gameId": gameID, "deleted": affected})
}

// --- accounts ---

func (s *Server) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := s.auth.Roles(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if roles == nil {
		roles = []string{}
	}
	writeJSON(w, http.StatusOK, roles)
}

func (s *Server) addUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeErr(w, fmt.Errorf("%w: %v", errs.ErrInvalidInput, err))
		return
	}
	username := r.FormValue("userName")
	password := r.FormValue("password")
	roles := r.Form["authorities"]
	if err := s.auth.Register(r.Context(), username, password, roles); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"userName": username})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeErr(w, fmt.Errorf("%w: %v", errs.ErrInvalidInput, err))
		return
	}
	sess, p, err := s.auth.Login(r.Context(), r.FormValue("userName"), r.FormValue("password"), r.RemoteAddr)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"userName": p.Username, "roles": p.Roles})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// --- fixed pages ---

func (s *Server) area(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, _, _ := PrincipalFromCtx(r.Context())
		writeJSON(w, http.StatusOK, map[string]string{"area": name, "principal": principal})
	}
}

func (s *Server) loginPrompt(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "log in"})
}

func (s *Server) denied(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusForbidden, map[string]string{"message": "permission denied"})
}

// --- plumbing ---

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id", errs.ErrInvalidInput)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps service sentinels onto HTTP statuses. Raw driver errors never
// reach here; everything is one of the errs sentinels or a wrapped variant.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	var status int
	var msg string
	switch {
	case errors.Is(err, errs.ErrNotFound):
		status, msg = http.StatusNotFound, "No such record"
	case errors.Is(err, errs.ErrAlreadyExists):
		status, msg = http.StatusConflict, "Name already exists."
	case errors.Is(err, errs.ErrConstraint):
		status, msg = http.StatusUnprocessableEntity, "constraint violation"
	case errors.Is(err, errs.ErrInvalidInput):
		status, msg = http.StatusBadRequest, "invalid input"
	case errors.Is(err, errs.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "bad credentials"
	case errors.Is(err, errs.ErrRateLimited):
		status, msg = http.StatusTooManyRequests, "too many attempts"
	case errors.Is(err, errs.ErrStorageUnavailable):
		status, msg = http.StatusServiceUnavailable, "storage unavailable"
	default:
		status, msg = http.StatusInternalServerError, "internal error"
	}
	if status >= 500 {
		s.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"message": msg})
}

package web

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/gin-gonic/gin"
)

type openRequest struct {
	JobType string `json:"jobType" binding:"required"`
}

type patchSessionRequest struct {
	JobNumber *string `json:"jobNumber"`
	Confirmed *bool   `json:"confirmed"`
}

type pointRequest struct {
	Text   *string `json:"text"`
	Status *string `json:"status"`
}

type delegateRequest struct {
	Name string `json:"name" binding:"required"`
}

type reviewerRequest struct {
	Name  string `json:"name"`
	AllOK bool   `json:"allOk"`
}

type jobInfo struct {
	Name       string `json:"name"`
	Points     int    `json:"points"`
	Delegating bool   `json:"delegating"`
	Saved      bool   `json:"saved"`
}

type sessionResponse struct {
	Success     bool               `json:"success"`
	Session     *checklist.Session `json:"session"`
	Pending     int                `json:"pending"`
	Complete    bool               `json:"complete"`
	CanFinalize bool               `json:"canFinalize"`
}

func (s *Server) respondSession(c *gin.Context, status int, sess *checklist.Session) {
	c.JSON(status, sessionResponse{
		Success:     true,
		Session:     sess,
		Pending:     sess.Pending(),
		Complete:    sess.IsComplete(),
		CanFinalize: sess.CanFinalize(),
	})
}

// bind decodes the JSON body into v, reporting failures as 400.
func (s *Server) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return false
	}
	return true
}

func pointIndex(c *gin.Context) (int, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errPointNumber, c.Param("index"))
	}
	return i, nil
}

func (s *Server) handleJobs(c *gin.Context) {
	cat, err := s.app.Checklists.Catalog()
	if err != nil {
		s.fail(c, err)
		return
	}
	saved, err := s.app.Checklists.Saved(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	jobs := make([]jobInfo, 0, cat.Len())
	for _, name := range cat.Names() {
		tmpl, _ := cat.Template(name)
		jobs = append(jobs, jobInfo{
			Name:       name,
			Points:     len(tmpl),
			Delegating: cat.IsDelegating(name),
			Saved:      slices.Contains(saved, name),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"jobs":      jobs,
		"count":     len(jobs),
		"delegates": cat.DelegateCandidates(),
	})
}

// handleOpen replaces the current session. Unsaved changes of the previous
// session are dropped.
func (s *Server) handleOpen(c *gin.Context) {
	var req openRequest
	if !s.bind(c, &req) {
		return
	}

	sess, err := s.app.Checklists.Open(c.Request.Context(), req.JobType)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess

	s.respondSession(c, http.StatusOK, sess)
}

func (s *Server) handleGetSession(c *gin.Context, sess *checklist.Session) {
	s.respondSession(c, http.StatusOK, sess)
}

func (s *Server) handlePatchSession(c *gin.Context, sess *checklist.Session) {
	var req patchSessionRequest
	if !s.bind(c, &req) {
		return
	}

	if req.JobNumber != nil {
		sess.SetJobNumber(*req.JobNumber)
	}
	if req.Confirmed != nil {
		sess.SetConfirmed(*req.Confirmed)
	}
	s.respondSession(c, http.StatusOK, sess)
}

func (s *Server) handleReport(c *gin.Context, sess *checklist.Session) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  s.app.Checklists.Report(sess),
	})
}

func (s *Server) handleAddPoint(c *gin.Context, sess *checklist.Session) {
	var req pointRequest
	if !s.bind(c, &req) {
		return
	}

	text := ""
	if req.Text != nil {
		text = *req.Text
	}
	index := sess.Add(text)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"index":   index,
		"point":   sess.Points[index],
	})
}

// handleUpdatePoint applies text and status together; nothing changes when
// either is invalid.
func (s *Server) handleUpdatePoint(c *gin.Context, sess *checklist.Session) {
	index, err := pointIndex(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var req pointRequest
	if !s.bind(c, &req) {
		return
	}

	var status checklist.Status
	if req.Status != nil {
		if status, err = checklist.ParseStatus(*req.Status); err != nil {
			s.fail(c, err)
			return
		}
	}
	if index < 0 || index >= len(sess.Points) {
		s.fail(c, &checklist.OutOfRangeError{Index: index, Len: len(sess.Points)})
		return
	}

	if req.Text != nil {
		if err := sess.EditText(index, *req.Text); err != nil {
			s.fail(c, err)
			return
		}
	}
	if req.Status != nil {
		if err := sess.SetStatus(index, status); err != nil {
			s.fail(c, err)
			return
		}
	}

	s.respondSession(c, http.StatusOK, sess)
}

func (s *Server) handleDeletePoint(c *gin.Context, sess *checklist.Session) {
	index, err := pointIndex(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := sess.Remove(index); err != nil {
		s.fail(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, sess)
}

func (s *Server) handleTogglePoint(c *gin.Context, sess *checklist.Session) {
	index, err := pointIndex(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := sess.Toggle(index); err != nil {
		s.fail(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, sess)
}

func (s *Server) handleDelegate(c *gin.Context, sess *checklist.Session) {
	var req delegateRequest
	if !s.bind(c, &req) {
		return
	}
	if err := s.app.Checklists.SetDelegate(c.Request.Context(), sess, req.Name); err != nil {
		s.fail(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, sess)
}

func (s *Server) handleSetReviewer(c *gin.Context, sess *checklist.Session) {
	var req reviewerRequest
	if !s.bind(c, &req) {
		return
	}
	if err := sess.SetReviewer(req.Name, req.AllOK); err != nil {
		s.fail(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, sess)
}

func (s *Server) handleClearReviewer(c *gin.Context, sess *checklist.Session) {
	sess.ClearReviewer()
	s.respondSession(c, http.StatusOK, sess)
}

func (s *Server) handleSave(c *gin.Context, sess *checklist.Session) {
	if err := s.app.Checklists.Save(c.Request.Context(), sess); err != nil {
		s.fail(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, sess)
}

func (s *Server) handleClear(c *gin.Context, sess *checklist.Session) {
	fresh, err := s.app.Checklists.Clear(c.Request.Context(), sess)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.current = fresh
	s.respondSession(c, http.StatusOK, fresh)
}

func (s *Server) handleComplete(c *gin.Context, sess *checklist.Session) {
	draft, err := s.app.Checklists.Complete(c.Request.Context(), sess)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"draft":   draft,
		"mailto":  draft.MailtoURL(),
	})
}

package ui

import (
	stderrors "errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"edadash/domain/table"
	"edadash/internal/dashboard"
	"edadash/internal/errors"
	"edadash/internal/session"

	"github.com/gin-gonic/gin"
)

// errorPage is the data of error.html
type errorPage struct {
	Status  int
	Code    string
	Message string
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := currentSession(c)
	view, err := s.dashboard.Render(c.Request.Context(), sess)
	if err != nil {
		s.renderError(c, err)
		return
	}

	if sess.Notice != "" {
		shown := sess.Clone()
		shown.Notice = ""
		s.store.Put(shown)
	}
	s.renderTemplate(c, http.StatusOK, "index.html", view)
}

func (s *Server) handleSelectFormat(c *gin.Context) {
	next, err := s.dashboard.SelectFormat(currentSession(c), c.PostForm("format"))
	s.finish(c, next, err)
}

func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.renderError(c, errors.InvalidInput(fmt.Sprintf("file exceeds the %d MB upload limit", s.maxUploadBytes>>20)))
			return
		}
		s.renderError(c, errors.InvalidInput("no file selected"))
		return
	}

	file, err := header.Open()
	if err != nil {
		s.renderError(c, errors.Wrap(err, "failed to open uploaded file"))
		return
	}
	defer file.Close()

	next, err := s.dashboard.UploadFile(c.Request.Context(), currentSession(c), dashboard.Upload{
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Content:   file,
	})
	s.finish(c, next, err)
}

func (s *Server) handleToggleExample(c *gin.Context) {
	next, err := s.dashboard.ToggleExample(currentSession(c), c.PostForm("example") == "on")
	s.finish(c, next, err)
}

func (s *Server) handleSelectVisuals(c *gin.Context) {
	next, err := s.dashboard.SelectVisuals(currentSession(c), c.PostFormArray("visual"))
	s.finish(c, next, err)
}

// handleSetOptions reads the section controls. A column list is taken as an
// explicit selection only when its "<name>_shown" marker was posted, so
// sections the form did not render keep selecting every eligible column.
func (s *Server) handleSetOptions(c *gin.Context) {
	columns := func(name string) []string {
		if c.PostForm(name+"_shown") == "" {
			return nil
		}
		return append([]string{}, c.PostFormArray(name)...)
	}

	opts := session.Options{
		DistributionColumns: columns("distribution"),
		CountColumns:        columns("count"),
		BoxColumns:          columns("box"),
		CategoryColumns:     columns("category"),
		Target:              c.PostForm("target"),
		ProblemType:         session.ProblemType(c.PostForm("problem_type")),
		PlotHighCardinality: c.PostForm("plot_high_cardinality") == "on",
	}
	// PostForm above has already parsed the body
	opts.Kinds = kindsFromForm(c.Request.PostForm)

	next, err := s.dashboard.SetOptions(currentSession(c), opts)
	s.finish(c, next, err)
}

// kindsFromForm collects "kind:<column>" fields
func kindsFromForm(values map[string][]string) map[string]table.Kind {
	var kinds map[string]table.Kind
	for key, vals := range values {
		name, ok := strings.CutPrefix(key, "kind:")
		if !ok || len(vals) == 0 || vals[0] == "" {
			continue
		}
		if kinds == nil {
			kinds = make(map[string]table.Kind)
		}
		kinds[name] = table.Kind(vals[0])
	}
	return kinds
}

func (s *Server) handleChat(c *gin.Context) {
	next, err := s.dashboard.SubmitChat(c.Request.Context(), currentSession(c), c.PostForm("api_key"), c.PostForm("prompt"))
	if err != nil && next != nil {
		s.store.Put(next)
	}
	s.finish(c, next, err)
}

// finish stores the updated session and sends the browser back to the page,
// or renders the error.
func (s *Server) finish(c *gin.Context, next *session.Session, err error) {
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.store.Put(next)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := statusFor(err)
	log.Printf("[Server] %s %s failed (%d): %v", c.Request.Method, c.Request.URL.Path, status, err)
	s.renderTemplate(c, status, "error.html", errorPage{
		Status:  status,
		Code:    errors.GetCode(err),
		Message: err.Error(),
	})
}

// statusFor maps an application error code to an HTTP status
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeParseError:
		return http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

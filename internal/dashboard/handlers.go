// Package dashboard turns user actions into session updates and renders the
// exploratory-analysis view of a session.
//
// Every UI action has a dedicated handler. A handler receives the current
// session, never mutates it, and returns an updated copy for the caller to
// store.
package dashboard

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"edadash/adapters/excel"
	"edadash/adapters/llm"
	"edadash/domain/chat"
	"edadash/domain/core"
	"edadash/domain/table"
	"edadash/internal"
	"edadash/internal/errors"
	"edadash/internal/session"
)

// ExampleLoader returns the bundled example dataset and its display name
type ExampleLoader func() (*table.Table, string, error)

// Service holds the collaborators shared by all sessions
type Service struct {
	chat        llm.ChatClient
	example     func() (*table.Table, string, error)
	logger      *internal.Logger
	previewRows int
}

// NewService creates the dashboard service. The example dataset is loaded
// once, on first use.
func NewService(chatClient llm.ChatClient, example ExampleLoader, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	var (
		once    sync.Once
		tbl     *table.Table
		name    string
		loadErr error
	)
	return &Service{
		chat: chatClient,
		example: func() (*table.Table, string, error) {
			once.Do(func() { tbl, name, loadErr = example() })
			return tbl, name, loadErr
		},
		logger:      logger.With("Dashboard"),
		previewRows: 200,
	}
}

// Upload is a file picked in the upload control
type Upload struct {
	Name      string
	MediaType string
	Content   io.Reader
}

func begin(sess *session.Session) *session.Session {
	next := sess.Clone()
	next.Notice = ""
	return next
}

// SelectFormat records the file format radio selection
func (s *Service) SelectFormat(sess *session.Session, format string) (*session.Session, error) {
	f, err := excel.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	next := begin(sess)
	next.Format = string(f)
	return next, nil
}

// UploadFile parses an uploaded dataset. The parser is picked from the file's
// media type when it is one of the two known ones, else from the selected
// format. Parse errors are returned wrapped with their code intact. Selections
// survive re-uploading identical content and are reset otherwise.
func (s *Service) UploadFile(ctx context.Context, sess *session.Session, up Upload) (*session.Session, error) {
	declared, err := excel.ParseFormat(sess.Format)
	if err != nil {
		return nil, err
	}
	format := excel.ResolveFormat(declared, up.MediaType)

	content, err := io.ReadAll(up.Content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}

	tbl, err := excel.NewDataReader(format, up.Name).Read(bytes.NewReader(content))
	if err != nil {
		s.logger.Warn("upload %s rejected: %v", up.Name, err)
		return nil, errors.Wrapf(err, "could not read %s as %s", up.Name, format)
	}

	next := begin(sess)
	fingerprint := core.NewHash(content)
	if prev := next.Uploaded; prev == nil || prev.Fingerprint != fingerprint {
		next.Options = resetColumnOptions(next.Options)
	}
	next.Uploaded = &session.Dataset{Name: up.Name, Table: tbl, Fingerprint: fingerprint}
	n, m := tbl.Shape()
	s.logger.Info("session %s loaded %s (%d rows, %d columns)", sess.ID, up.Name, n, m)
	return next, nil
}

// ToggleExample switches the bundled example dataset on or off
func (s *Service) ToggleExample(sess *session.Session, on bool) (*session.Session, error) {
	next := begin(sess)
	if on && next.Example == nil {
		tbl, name, err := s.example()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load example dataset")
		}
		next.Example = &session.Dataset{Name: name, Table: tbl, Example: true}
	}
	if on != next.UseExample {
		next.Options = resetColumnOptions(next.Options)
	}
	next.UseExample = on
	return next, nil
}

// SelectVisuals replaces the set of switched-on sections. Unknown names are
// rejected.
func (s *Service) SelectVisuals(sess *session.Session, names []string) (*session.Session, error) {
	visuals := make([]session.Visualization, 0, len(names))
	seen := make(map[session.Visualization]bool)
	for _, name := range names {
		v, ok := session.ParseVisualization(name)
		if !ok {
			return nil, errors.InvalidInput("unknown visualization: " + name)
		}
		if !seen[v] {
			seen[v] = true
			visuals = append(visuals, v)
		}
	}
	next := begin(sess)
	next.Visuals = visuals
	return next, nil
}

// SetOptions replaces the per-section selections
func (s *Service) SetOptions(sess *session.Session, opts session.Options) (*session.Session, error) {
	switch opts.ProblemType {
	case "":
		opts.ProblemType = session.Regression
	case session.Regression, session.Classification:
	default:
		return nil, errors.InvalidInput("unknown problem type: " + string(opts.ProblemType))
	}
	for name, kind := range opts.Kinds {
		if _, ok := table.ParseKind(string(kind)); !ok {
			return nil, errors.InvalidInput("unknown kind " + string(kind) + " for column " + name)
		}
	}

	next := begin(sess)
	next.Options = opts
	return next, nil
}

// SubmitChat appends the prompt to the chat log, sends the whole log to the
// hosted model and appends its reply. Without an API key nothing is sent and
// an inline notice is set instead. A failed request returns the session with
// the user's message already appended together with the error.
func (s *Service) SubmitChat(ctx context.Context, sess *session.Session, apiKey, prompt string) (*session.Session, error) {
	next := begin(sess)
	if key := strings.TrimSpace(apiKey); key != "" {
		next.APIKey = key
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return next, nil
	}
	if next.APIKey == "" {
		next.Notice = chat.MissingKeyNotice
		return next, nil
	}

	next.Messages = append(next.Messages, chat.Message{Role: chat.RoleUser, Content: prompt})
	s.logger.Debug("session %s sending %d messages", sess.ID, len(next.Messages))

	reply, err := s.chat.Complete(ctx, next.APIKey, next.Messages)
	if err != nil {
		s.logger.Error("chat request failed for session %s: %v", sess.ID, err)
		return next, errors.Wrap(err, "chat request failed")
	}
	next.Messages = append(next.Messages, reply)
	return next, nil
}

func resetColumnOptions(opts session.Options) session.Options {
	return session.Options{
		ProblemType:         opts.ProblemType,
		PlotHighCardinality: false,
	}
}

package mcpserver

import (
	"context"
	"fmt"

	"trainings/internal/domain"
	"trainings/internal/editor"
	"trainings/internal/markdown"
	"trainings/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTrainingTools() {
	// ── open_training ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_training",
		mcp.WithDescription("Open a training for editing. Omit trainingId to start a new one."),
		mcp.WithString("trainingId", mcp.Description("Training ID (optional)")),
		mcp.WithString("title", mcp.Description("Title for a new training (optional)")),
	), s.handleOpenTraining)

	// ── list_trainings ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_trainings",
		mcp.WithDescription("List the company's saved trainings, most recently updated first"),
	), s.handleListTrainings)

	// ── get_document ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Return the current document of an open training"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
	), s.handleGetDocument)

	// ── set_title ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_title",
		mcp.WithDescription("Rename an open training"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("title", mcp.Description("New title"), mcp.Required()),
	), s.handleSetTitle)

	// ── save_training ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_training",
		mcp.WithDescription("Persist the current document of an open training"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
	), s.handleSaveTraining)

	// ── close_training ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("close_training",
		mcp.WithDescription("Close an editing session. Unsaved changes are discarded unless save is true."),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithBoolean("save", mcp.Description("Save before closing (default false)")),
	), s.handleCloseTraining)

	// ── import_markdown (destructive) ──────────────────
	s.mcp.AddTool(mcp.NewTool("import_markdown",
		mcp.WithDescription("Replace the document of an open training with content converted from Markdown"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("markdown", mcp.Description("Markdown source"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleImportMarkdown)
}

// documentView is the full state of an open training.
type documentView struct {
	TrainingID     string           `json:"trainingId"`
	Title          string           `json:"title"`
	Revision       uint64           `json:"revision"`
	Dirty          bool             `json:"dirty"`
	ActiveSection  int              `json:"activeSection"`
	RewriteEnabled bool             `json:"rewriteEnabled"`
	Document       *domain.Document `json:"document"`
}

func (s *Server) view(sess *service.Session) documentView {
	v := documentView{
		TrainingID:     sess.ID,
		Title:          sess.Title(),
		RewriteEnabled: s.rewrite != nil && s.rewrite.Available(sess),
	}
	sess.View(func(c *editor.Controller) {
		v.Document = c.Document()
		v.ActiveSection = c.ActiveSection()
	})
	v.Revision, v.Dirty = sess.Revision()
	return v
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleOpenTraining(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.sessions.Open(ctx, getString(args, "trainingId"), s.principal)
	if err != nil {
		return nil, err
	}
	if title := getString(args, "title"); title != "" && getString(args, "trainingId") == "" {
		sess.SetTitle(ctx, title)
	}
	return jsonResult(s.view(sess))
}

func (s *Server) handleListTrainings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.sessions.List(ctx, s.principal.CompanyID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.TrainingSummary{}
	}
	return jsonResult(list)
}

func (s *Server) handleGetDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(req.GetArguments())
	if err != nil {
		return nil, err
	}
	return jsonResult(s.view(sess))
}

func (s *Server) handleSetTitle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	title, err := requireString(args, "title")
	if err != nil {
		return nil, err
	}
	return jsonResult(s.command(sess, sess.SetTitle(ctx, title)))
}

func (s *Server) handleSaveTraining(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(req.GetArguments())
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess.ID); err != nil {
		return nil, fmt.Errorf("save training: %w", err)
	}
	return jsonResult(s.command(sess, domain.Applied()))
}

func (s *Server) handleCloseTraining(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	if getBool(args, "save", false) {
		if err := s.sessions.Save(ctx, sess.ID); err != nil {
			return nil, fmt.Errorf("save training: %w", err)
		}
	}
	res := s.command(sess, domain.Applied())
	if err := s.sessions.Close(sess.ID); err != nil {
		return nil, err
	}
	return jsonResult(res)
}

func (s *Server) handleImportMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	src := getString(args, "markdown")
	doc, err := markdown.Import([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("import markdown: %w", err)
	}
	if err := s.sessions.Import(ctx, sess.ID, doc); err != nil {
		return nil, err
	}
	return jsonResult(s.command(sess, domain.Applied()))
}

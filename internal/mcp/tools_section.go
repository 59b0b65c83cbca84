package mcpserver

import (
	"context"

	"trainings/internal/domain"
	"trainings/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSectionTools() {
	s.mcp.AddTool(mcp.NewTool("add_section",
		mcp.WithDescription("Add a section with a default title and make it active. Appends unless after is given."),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithNumber("after", mcp.Description("Insert after this section index (optional)")),
	), s.handleAddSection)

	s.mcp.AddTool(mcp.NewTool("delete_section",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a section and its blocks. The last section is never deleted."),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteSection)

	s.mcp.AddTool(mcp.NewTool("duplicate_section",
		mcp.WithDescription("Insert a deep copy of a section right after it"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index"), mcp.Required()),
	), s.handleDuplicateSection)

	s.mcp.AddTool(mcp.NewTool("rename_section",
		mcp.WithDescription("Change a section title"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index"), mcp.Required()),
		mcp.WithString("title", mcp.Description("New title"), mcp.Required()),
	), s.handleRenameSection)

	s.mcp.AddTool(mcp.NewTool("move_section",
		mcp.WithDescription("Move a section from one index to another"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithNumber("from", mcp.Description("Current index"), mcp.Required()),
		mcp.WithNumber("to", mcp.Description("Target index"), mcp.Required()),
	), s.handleMoveSection)

	s.mcp.AddTool(mcp.NewTool("set_active_section",
		mcp.WithDescription("Select the section new content goes to by default"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index"), mcp.Required()),
	), s.handleSetActiveSection)
}

func (s *Server) handleAddSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	var id string
	res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
		var r domain.Result
		if after, ok := args["after"].(float64); ok {
			id, r = c.InsertSection(int(after))
		} else {
			id, r = c.AddSection()
		}
		return r
	})
	out := s.command(sess, res)
	out.ID = id
	return jsonResult(out)
}

func (s *Server) handleDeleteSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	si, err := requireInt(args, "section")
	if err != nil {
		return nil, err
	}
	res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
		return c.DeleteSection(si)
	})
	return jsonResult(s.command(sess, res))
}

func (s *Server) handleDuplicateSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	si, err := requireInt(args, "section")
	if err != nil {
		return nil, err
	}
	var id string
	res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
		var r domain.Result
		id, r = c.DuplicateSection(si)
		return r
	})
	out := s.command(sess, res)
	out.ID = id
	return jsonResult(out)
}

func (s *Server) handleRenameSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	si, err := requireInt(args, "section")
	if err != nil {
		return nil, err
	}
	title := getString(args, "title")
	res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
		return c.RenameSection(si, title)
	})
	return jsonResult(s.command(sess, res))
}

func (s *Server) handleMoveSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	from, err := requireInt(args, "from")
	if err != nil {
		return nil, err
	}
	to, err := requireInt(args, "to")
	if err != nil {
		return nil, err
	}
	res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
		return c.MoveSection(from, to)
	})
	return jsonResult(s.command(sess, res))
}

func (s *Server) handleSetActiveSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	si, err := requireInt(args, "section")
	if err != nil {
		return nil, err
	}
	res := sess.Do(ctx, func(c *editor.Controller) domain.Result {
		return c.SetActiveSection(si)
	})
	return jsonResult(s.command(sess, res))
}

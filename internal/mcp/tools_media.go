package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"trainings/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerMediaTools() {
	s.mcp.AddTool(mcp.NewTool("set_media_url",
		mcp.WithDescription("Point an image or video block at an http(s) URL"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("url", mcp.Description("Media URL"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index (optional)")),
	), s.handleSetMediaURL)

	s.mcp.AddTool(mcp.NewTool("upload_media",
		mcp.WithDescription("Upload a file into an image or video block. The content type must match the block."),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("data", mcp.Description("File content, base64 encoded"), mcp.Required()),
		mcp.WithString("filename", mcp.Description("Original file name (optional)")),
		mcp.WithNumber("section", mcp.Description("Section index (optional)")),
		mcp.WithBoolean("wait", mcp.Description("Wait for the upload to be applied (default true)")),
	), s.handleUploadMedia)

	s.mcp.AddTool(mcp.NewTool("clear_media",
		mcp.WithDescription("Remove the media reference of an image or video block"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index (optional)")),
	), s.handleClearMedia)

	s.mcp.AddTool(mcp.NewTool("rewrite_block",
		mcp.WithDescription("Ask the writing assistant to improve the text of a text or quote block"),
		mcp.WithString("trainingId", mcp.Description("Training ID"), mcp.Required()),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("section", mcp.Description("Section index (optional)")),
		mcp.WithBoolean("wait", mcp.Description("Wait for the rewrite to be applied (default true)")),
	), s.handleRewriteBlock)
}

// pendingResult answers an asynchronous tool call that was not awaited.
type pendingResult struct {
	TrainingID string `json:"trainingId"`
	BlockID    string `json:"blockId"`
	Pending    bool   `json:"pending"`
}

func (s *Server) handleSetMediaURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	si := sectionFor(sess, args, blockID)
	res := s.media.SetURL(ctx, sess, si, blockID, getString(args, "url"))
	return jsonResult(s.command(sess, res))
}

func (s *Server) handleClearMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	si := sectionFor(sess, args, blockID)
	return jsonResult(s.command(sess, s.media.Clear(ctx, sess, si, blockID)))
}

// decodeBase64 accepts plain base64 or a data URL.
func decodeBase64(data string) ([]byte, error) {
	if strings.HasPrefix(data, "data:") {
		if i := strings.Index(data, ","); i >= 0 {
			data = data[i+1:]
		}
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return raw, nil
}

func (s *Server) handleUploadMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	data, err := requireString(args, "data")
	if err != nil {
		return nil, err
	}
	raw, err := decodeBase64(data)
	if err != nil {
		return nil, err
	}
	si := sectionFor(sess, args, blockID)

	job, err := s.media.Ingest(ctx, sess, si, blockID, bytes.NewReader(raw), getString(args, "filename"))
	if err != nil {
		return nil, err
	}
	return s.await(ctx, sess, blockID, job, getBool(args, "wait", true))
}

func (s *Server) handleRewriteBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	if s.rewrite == nil {
		return nil, service.ErrRewriteDisabled
	}
	si := sectionFor(sess, args, blockID)

	job, err := s.rewrite.Rewrite(ctx, sess, si, blockID)
	if err != nil {
		return nil, err
	}
	return s.await(ctx, sess, blockID, job, getBool(args, "wait", true))
}

func (s *Server) await(ctx context.Context, sess *service.Session, blockID string, job *service.Job, wait bool) (*mcp.CallToolResult, error) {
	if !wait {
		return jsonResult(pendingResult{TrainingID: sess.ID, BlockID: blockID, Pending: true})
	}
	res, err := job.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(s.command(sess, res))
}

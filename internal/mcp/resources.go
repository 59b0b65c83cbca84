package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	documentURIPrefix = "trainings://"
	documentURISuffix = "/document"
)

func (s *Server) registerResources() {
	// ── trainings://{trainingId}/document ──────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			documentURIPrefix+"{trainingId}"+documentURISuffix,
			"Training Document",
			mcp.WithTemplateDescription("Current document of an open training session"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleDocumentResource,
	)
}

// trainingIDFromURI extracts the id from trainings://{trainingId}/document.
func trainingIDFromURI(uri string) string {
	if !strings.HasPrefix(uri, documentURIPrefix) || !strings.HasSuffix(uri, documentURISuffix) {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, documentURIPrefix), documentURISuffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

func (s *Server) handleDocumentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := trainingIDFromURI(uri)
	if id == "" {
		return nil, fmt.Errorf("could not extract trainingId from URI: %s", uri)
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(s.view(sess), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

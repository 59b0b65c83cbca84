package mcpserver

import (
	"fmt"

	"trainings/internal/domain"
	"trainings/internal/editor"
	"trainings/internal/service"
)

func getString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func requireString(args map[string]any, key string) (string, error) {
	v := getString(args, key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// getInt reads a JSON number. Arguments arrive as float64.
func getInt(args map[string]any, key string, fallback int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return fallback
}

func requireInt(args map[string]any, key string) (int, error) {
	v, ok := args[key].(float64)
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	return int(v), nil
}

func getBool(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// session resolves the trainingId argument to an open session.
func (s *Server) session(args map[string]any) (*service.Session, error) {
	id, err := requireString(args, "trainingId")
	if err != nil {
		return nil, err
	}
	return s.sessions.Get(id)
}

// sectionFor picks the section a block command targets: the explicit
// section argument, else the section holding blockID, else the active one.
func sectionFor(sess *service.Session, args map[string]any, blockID string) int {
	if _, ok := args["section"]; ok {
		return getInt(args, "section", 0)
	}
	si := -1
	sess.View(func(c *editor.Controller) {
		if blockID != "" {
			if i, _, ok := c.Document().FindBlock(blockID); ok {
				si = i
				return
			}
		}
		si = c.ActiveSection()
	})
	return si
}

// activeOr reads the section argument, defaulting to the active section.
func activeOr(sess *service.Session, args map[string]any) int {
	return sectionFor(sess, args, "")
}

func parseBlockType(args map[string]any) (domain.BlockType, error) {
	t, err := requireString(args, "type")
	if err != nil {
		return "", err
	}
	return domain.BlockType(t), nil
}

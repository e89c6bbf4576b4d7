package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Action is one scripted step. Ops mirror the service surface: "click"
// (team, player), "press" (action: score/drop/turn/pull), "sub" and
// "undo" (count).
type Action struct {
	Op     string `json:"op"`
	Team   string `json:"team,omitempty"`
	Player string `json:"player,omitempty"`
	Action string `json:"action,omitempty"`
	Count  int    `json:"count,omitempty"`
}

var pressActions = map[string]struct{}{
	"score": {},
	"drop":  {},
	"turn":  {},
	"pull":  {},
}

// ParseScript reads a JSON-lines action script. Blank lines and lines
// starting with # are skipped.
func ParseScript(r io.Reader) ([]Action, error) {
	var actions []Action
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var a Action
		if err := json.Unmarshal([]byte(text), &a); err != nil {
			return nil, fmt.Errorf("script line %d: %w", line, err)
		}
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("script line %d: %w", line, err)
		}
		actions = append(actions, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return actions, nil
}

func (a Action) validate() error {
	switch a.Op {
	case "click":
		if a.Team != "A" && a.Team != "B" {
			return fmt.Errorf("click needs team A or B, got %q", a.Team)
		}
		if a.Player == "" {
			return fmt.Errorf("click needs a player")
		}
	case "press":
		if _, ok := pressActions[a.Action]; !ok {
			return fmt.Errorf("unknown press action %q", a.Action)
		}
	case "sub":
		// No parameters.
	case "undo":
		if a.Count < 1 {
			return fmt.Errorf("undo needs a positive count")
		}
	default:
		return fmt.Errorf("unknown op %q", a.Op)
	}
	return nil
}

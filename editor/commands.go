package editor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/domedit/connectivity"
)

// Command is the inbound command envelope accepted by the editor's
// service endpoint.
type Command struct {
	Type     string `json:"type"`
	Value    string `json:"value,omitempty"`
	Name     string `json:"name,omitempty"`
	Property string `json:"property,omitempty"`
	Index    int    `json:"index,omitempty"`
}

// Result is the command outcome. On failure Error carries a message
// suitable for direct display; on success State carries the
// post-command editor state.
type Result struct {
	OK    bool         `json:"ok"`
	Error string       `json:"error,omitempty"`
	State *EditorState `json:"state,omitempty"`
}

// Command types accepted by HandleCommand.
const (
	CmdStart        = "START"
	CmdStop         = "STOP"
	CmdGetState     = "GET_STATE"
	CmdSetText      = "SET_TEXT"
	CmdSetAttribute = "SET_ATTRIBUTE"
	CmdSetStyle     = "SET_STYLE"
	CmdSelectParent = "SELECT_PARENT"
	CmdSelectChild  = "SELECT_CHILD"
	CmdReset        = "RESET"
	CmdSaveLayout   = "SAVE_LAYOUT"
)

// HandleCommand is the connectivity handler for the editor service.
// Errors from the taxonomy never escape as handler errors; they come
// back as failure results so every caller gets a displayable message.
func (e *Editor) HandleCommand(ctx context.Context, payload []byte) ([]byte, error) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return nil, fmt.Errorf("editor: decode command: %w", err)
	}

	var err error
	switch cmd.Type {
	case CmdStart:
		err = e.Start(ctx)
	case CmdStop:
		err = e.Stop(ctx)
	case CmdGetState:
		// State read only, handled below.
	case CmdSetText:
		err = e.SetText(ctx, cmd.Value)
	case CmdSetAttribute:
		err = e.SetAttribute(ctx, cmd.Name, cmd.Value)
	case CmdSetStyle:
		err = e.SetStyle(ctx, cmd.Property, cmd.Value)
	case CmdSelectParent:
		err = e.SelectParent(ctx)
	case CmdSelectChild:
		err = e.SelectChild(ctx, cmd.Index)
	case CmdReset:
		err = e.Reset(ctx)
	case CmdSaveLayout:
		err = e.SaveLayout(ctx)
	default:
		return nil, fmt.Errorf("editor: unknown command type %q", cmd.Type)
	}

	res := Result{OK: err == nil}
	if err != nil {
		res.Error = err.Error()
	} else {
		st := e.State(ctx)
		res.State = &st
	}
	return json.Marshal(res)
}

// RegisterRoutes registers the editor service on the connectivity
// router.
func (e *Editor) RegisterRoutes(r *connectivity.Router) {
	r.RegisterLocal("editor", e.HandleCommand)
}

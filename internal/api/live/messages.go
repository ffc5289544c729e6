package live

import (
	"encoding/json"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/view"
)

// command is a message from the browser.
type command struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type errorData struct {
	Error string `json:"error"`
}

type pageData struct {
	Page  int `json:"page"`
	Delta int `json:"delta"`
}

type sectionData struct {
	Section string `json:"section"`
}

type shortcutData struct {
	Code  string `json:"code"`
	Alt   bool   `json:"alt"`
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
}

// handle applies one browser command to the admin's dashboard and returns
// the encoded reply.
func (h *Hub) handle(adminID string, cmd command) []byte {
	switch cmd.Type {
	case "filter":
		var f view.Filter
		if err := json.Unmarshal(cmd.Data, &f); err != nil {
			return encodeError("malformed filter")
		}
		frame, err := h.dash.SetFilter(adminID, f)
		if err != nil {
			return encodeError(err.Error())
		}
		return encode(envelope{Type: "frame", Data: frame})

	case "page":
		var p pageData
		if err := json.Unmarshal(cmd.Data, &p); err != nil {
			return encodeError("malformed page")
		}
		var frame view.Frame
		if p.Delta != 0 {
			frame, _ = h.dash.ChangePage(adminID, p.Delta)
		} else {
			frame, _ = h.dash.GoToPage(adminID, p.Page)
		}
		return encode(envelope{Type: "frame", Data: frame})

	case "section":
		var s sectionData
		if err := json.Unmarshal(cmd.Data, &s); err != nil {
			return encodeError("malformed section")
		}
		sec, err := domain.ParseSection(s.Section)
		if err != nil {
			return encodeError(err.Error())
		}
		return encode(envelope{Type: "frame", Data: h.dash.ShowSection(adminID, sec)})

	case "shortcut":
		var s shortcutData
		if err := json.Unmarshal(cmd.Data, &s); err != nil {
			return encodeError("malformed shortcut")
		}
		frame, _ := h.dash.Shortcut(adminID, s.Code, s.Alt, s.Ctrl, s.Shift)
		return encode(envelope{Type: "frame", Data: frame})

	case "refresh":
		return encode(envelope{Type: "frame", Data: h.dash.Frame(adminID, false)})
	}
	return encodeError("unknown message type")
}

func encodeError(msg string) []byte {
	return encode(envelope{Type: "error", Data: errorData{Error: msg}})
}

func encode(e envelope) []byte {
	b, err := json.Marshal(e)
	if err != nil {
		b, _ = json.Marshal(envelope{Type: "error", Data: errorData{Error: "encoding failed"}})
	}
	return b
}

package ops

import (
	"encoding/json"
	"io"

	"github.com/sadopc/duview/internal/model"
	"github.com/sadopc/duview/internal/scanner"
)

// resultJSON is the wire shape of a scan outcome:
//
//	{"ok":true,"data":{...},"scanId":"..."}
//	{"ok":false,"cancelled":true}
//	{"ok":false,"error":"..."}
type resultJSON struct {
	OK        bool        `json:"ok"`
	Data      *model.Node `json:"data,omitempty"`
	ScanID    string      `json:"scanId,omitempty"`
	Cancelled bool        `json:"cancelled,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// WriteResult encodes a scan result as one JSON document.
func WriteResult(w io.Writer, res scanner.Result) error {
	var out resultJSON
	switch {
	case res.Cancelled:
		out.Cancelled = true
	case res.Err != nil:
		out.Error = res.Err.Error()
	default:
		out.OK = true
		out.Data = res.Tree
		out.ScanID = res.SessionID
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

package protocol

import "encoding/json"

// Request is one framed client message (spec.md §6).
type Request struct {
	ID      string          `json:"id"`
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is one framed reply. Exactly one of Result or Error/Code is
// populated depending on Status.
type Response struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
	Timing *int64 `json:"timing,omitempty"`
}

// Startup is the unsolicited object emitted exactly once before any
// response.
type Startup struct {
	Type         string   `json:"type"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
	Ready        bool     `json:"ready"`
}

func successResponse(id string, result any, timing int64) Response {
	t := timing
	return Response{ID: id, Status: "success", Result: result, Timing: &t}
}

func errorResponse(id string, err *Error) Response {
	return Response{ID: id, Status: "error", Error: err.Message(), Code: string(err.Code)}
}

package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const frameDelimiter = "\n\n"

// Loop runs the Worker Loop over r/w until r is exhausted or a shutdown
// request has been handled and flushed. It writes the startup banner
// exactly once before reading the first request (spec.md §4.8, §5).
func (s *Server) Loop(r io.Reader, w io.Writer) error {
	s.startupOnce.Do(func() {
		_ = writeFrame(w, s.StartupBanner())
	})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	scanner.Split(splitOnDoubleNewline)

	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		req, parseErr := parseRequest(raw)
		if parseErr != nil {
			if err := writeFrame(w, errorResponse(requestIDOf(raw), newError(CodeInvalidJSON, parseErr))); err != nil {
				return err
			}
			continue
		}

		resp := s.Dispatch(req)
		if err := writeFrame(w, resp); err != nil {
			return err
		}
		if s.shuttingDown {
			return nil
		}
	}
	return scanner.Err()
}

func parseRequest(raw []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, err
	}
	if req.Command == "" {
		return Request{}, fmt.Errorf("request missing command")
	}
	return req, nil
}

// requestIDOf best-effort extracts an "id" field from an otherwise
// unparseable frame, so an INVALID_JSON response can still echo it
// (spec.md §7: "reported (if possible)").
func requestIDOf(raw []byte) string {
	var partial struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &partial)
	return partial.ID
}

func writeFrame(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, frameDelimiter)
	return err
}

// splitOnDoubleNewline is a bufio.SplitFunc that frames on "\n\n",
// tolerating arbitrary trailing whitespace within a frame (spec.md §6).
func splitOnDoubleNewline(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.Index(data, []byte(frameDelimiter)); i >= 0 {
		return i + len(frameDelimiter), data[:i], nil
	}
	if atEOF {
		if len(bytes.TrimSpace(data)) == 0 {
			return len(data), nil, nil
		}
		return len(data), data, nil
	}
	return 0, nil, nil
}

package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ResultFDEnv names the environment variable telling a child process which
// file descriptor carries its completion message.
const ResultFDEnv = "BRANCHBENCH_RESULT_FD"

// resultFD is the descriptor the parent passes via ExtraFiles (0-2 are stdio).
const resultFD = 3

// ErrNoResult is returned when a child exits without sending a message.
var ErrNoResult = errors.New("benchmark process exited without reporting results")

// Message is the single completion message a child sends to its parent.
type Message struct {
	Results ResultSet `json:"results,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// ChildError is an error reported by the benchmark process itself.
type ChildError struct {
	Message string
}

func (e *ChildError) Error() string {
	return "benchmark process failed: " + e.Message
}

// WriteMessage encodes msg to w.
func WriteMessage(w io.Writer, msg Message) error {
	if msg.Error == "" && msg.Results == nil {
		msg.Results = ResultSet{}
	}
	return json.NewEncoder(w).Encode(msg)
}

// ReadMessage decodes exactly one message from r.
func ReadMessage(r io.Reader) (ResultSet, error) {
	var msg Message
	if err := json.NewDecoder(r).Decode(&msg); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, ErrNoResult
		}
		return nil, fmt.Errorf("malformed result message: %w", err)
	}
	if msg.Error != "" {
		return nil, &ChildError{Message: msg.Error}
	}
	if msg.Results == nil {
		return ResultSet{}, nil
	}
	return msg.Results, nil
}

// resultChannel opens the descriptor named by ResultFDEnv.
func resultChannel() (*os.File, error) {
	v := os.Getenv(ResultFDEnv)
	if v == "" {
		return nil, fmt.Errorf("%s is not set; not started by branchbench", ResultFDEnv)
	}
	fd, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", ResultFDEnv, v, err)
	}
	return os.NewFile(uintptr(fd), "branchbench-results"), nil
}

// SendResults is called by a benchmark process to deliver its results to the parent.
func SendResults(results ResultSet) error {
	return send(Message{Results: results})
}

// SendError reports a failure to the parent instead of results.
func SendError(err error) error {
	return send(Message{Error: err.Error()})
}

func send(msg Message) error {
	f, err := resultChannel()
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteMessage(f, msg)
}

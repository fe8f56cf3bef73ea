package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// scannerInitialBufferSize is the initial buffer size for the trace scanner.
	scannerInitialBufferSize = 64 * 1024 // 64KB

	// scannerMaxLineSize is the maximum accepted line length.
	scannerMaxLineSize = 1024 * 1024 // 1MB

	commentPrefix = "#"
	headerLines   = 4
)

// SyntaxError reports a malformed trace line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("trace: line %d: %s", e.Line, e.Msg)
}

// Parse reads a trace. The input is decoded as UTF-8, with a UTF-8 BOM
// stripped and BOM-marked UTF-16 converted.
func Parse(r io.Reader) (*Trace, error) {
	// BOMOverride switches to UTF-16 when the input starts with a UTF-16 BOM
	// and drops a UTF-8 BOM otherwise.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	buf := make([]byte, 0, scannerInitialBufferSize)
	scanner.Buffer(buf, scannerMaxLineSize)

	t := &Trace{}
	var header [headerLines]int
	seen := 0
	numOps := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		if seen < headerLines {
			v, err := strconv.Atoi(line)
			if err != nil || v < 0 {
				return nil, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("header value %q is not a non-negative integer", line)}
			}
			header[seen] = v
			seen++
			if seen == headerLines {
				t.SuggestedHeap, t.NumIDs, numOps, t.Weight = header[0], header[1], header[2], header[3]
				t.Ops = make([]Op, 0, min(numOps, 1<<20))
			}
			continue
		}

		op, err := parseOp(line)
		if err != nil {
			return nil, &SyntaxError{Line: lineNo, Msg: err.Error()}
		}
		t.Ops = append(t.Ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning trace: %w", err)
	}

	if seen < headerLines {
		return nil, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("truncated header: %d of %d values", seen, headerLines)}
	}
	if len(t.Ops) != numOps {
		return nil, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("header declares %d ops, found %d", numOps, len(t.Ops))}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseOp(line string) (Op, error) {
	fields := strings.Fields(line)
	if len(fields[0]) != 1 {
		return Op{}, fmt.Errorf("unknown operation %q", fields[0])
	}
	kind := OpKind(fields[0][0])

	want := 3
	switch kind {
	case OpAlloc, OpRealloc:
	case OpFree:
		want = 2
	default:
		return Op{}, fmt.Errorf("unknown operation %q", fields[0])
	}
	if len(fields) != want {
		return Op{}, fmt.Errorf("%s takes %d operands, got %d", kind, want-1, len(fields)-1)
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return Op{}, fmt.Errorf("bad id %q", fields[1])
	}
	op := Op{Kind: kind, ID: id}
	if want == 3 {
		if op.Size, err = strconv.Atoi(fields[2]); err != nil {
			return Op{}, fmt.Errorf("bad size %q", fields[2])
		}
	}
	return op, nil
}

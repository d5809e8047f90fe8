package httprange

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Kind int

const (
	// NoRange means the request carried no Range header and the whole
	// resource should be served.
	NoRange Kind = iota
	Satisfiable
	Unsatisfiable
	Malformed
)

func (k Kind) String() string {
	switch k {
	case NoRange:
		return "none"
	case Satisfiable:
		return "satisfiable"
	case Unsatisfiable:
		return "unsatisfiable"
	case Malformed:
		return "malformed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Range is an inclusive byte interval. Parse only returns one with
// 0 <= Start <= End <= size-1.
type Range struct {
	Start int64
	End   int64
}

func (r Range) Length() int64 { return r.End - r.Start + 1 }

// ContentRange renders the Content-Range value of a partial response.
func (r Range) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// UnsatisfiedContentRange renders the Content-Range value sent with 416.
func UnsatisfiedContentRange(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}

type Result struct {
	Kind  Kind
	Range Range
}

const unit = "bytes="

// Parse validates a Range header against a resource of the given size. Only
// single ranges are honoured; a comma separated list is Malformed. An empty
// header is treated as absent.
func Parse(s string, size int64) Result {
	if s == "" {
		return Result{Kind: NoRange}
	}
	if size <= 0 {
		return Result{Kind: Unsatisfiable}
	}
	if len(s) < len(unit) || !strings.EqualFold(s[:len(unit)], unit) {
		return Result{Kind: Malformed}
	}
	spec := strings.TrimSpace(s[len(unit):])
	if strings.Contains(spec, ",") {
		return Result{Kind: Malformed}
	}
	i := strings.Index(spec, "-")
	if i < 0 {
		return Result{Kind: Malformed}
	}
	startSpec, endSpec := strings.TrimSpace(spec[:i]), strings.TrimSpace(spec[i+1:])

	if startSpec == "" {
		n, ok := parseOffset(endSpec)
		if !ok {
			return Result{Kind: Malformed}
		}
		if n == 0 {
			return Result{Kind: Unsatisfiable}
		}
		start := size - n
		if start < 0 {
			start = 0
		}
		return satisfiable(start, size-1)
	}

	start, ok := parseOffset(startSpec)
	if !ok {
		return Result{Kind: Malformed}
	}
	end := size - 1
	if endSpec != "" {
		e, ok := parseOffset(endSpec)
		if !ok {
			return Result{Kind: Malformed}
		}
		if e < end {
			end = e
		}
	}
	if start >= size {
		return Result{Kind: Unsatisfiable}
	}
	if start > end {
		return Result{Kind: Malformed}
	}
	return satisfiable(start, end)
}

func satisfiable(start, end int64) Result {
	return Result{Kind: Satisfiable, Range: Range{Start: start, End: end}}
}

// parseOffset accepts decimal digits only, so signs, hex and blanks are
// rejected. Values past int64 saturate; they are clamped later anyway.
func parseOffset(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return math.MaxInt64, true
	}
	return n, true
}

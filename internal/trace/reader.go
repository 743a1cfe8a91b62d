package trace

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Reader yields Records one at a time from an underlying io.Reader.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader wraps r for line-at-a-time trace parsing. Lines are buffered
// with a 1 MiB maximum token size, generous for any single trace record.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{sc: sc}
}

// Next returns the next Record, or io.EOF once the input is exhausted.
// Blank lines are skipped; any other malformed line returns a *ParseError.
func (r *Reader) Next() (Record, error) {
	for {
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return Record{}, err
			}
			return Record{}, io.EOF
		}
		r.line++
		text := r.sc.Text()
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		rec, err := parseLine(trimmed)
		if err != nil {
			return Record{}, &ParseError{Line: r.line, Text: text, Err: err}
		}
		return rec, nil
	}
}

func parseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return Record{}, strconv.ErrSyntax
	}

	ts, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Record{}, err
	}
	ioType, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return Record{}, err
	}
	lba, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return Record{}, err
	}
	size, err := strconv.ParseUint(fields[3], 10, 32)
	if err != nil {
		return Record{}, err
	}
	stream, err := strconv.ParseUint(fields[4], 10, 32)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Timestamp: ts,
		IOType:    IOType(ioType),
		LBA:       lba,
		Size:      uint32(size),
		Stream:    uint32(stream),
	}, nil
}

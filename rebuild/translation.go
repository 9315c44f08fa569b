package rebuild

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	gserrors "github.com/wippyai/gsi-script/errors"
)

const (
	headerGlyph = "○"
	markerGlyph = "●"
	bom         = "\uFEFF"
)

// Record is one translation record. Index matches the text block it
// replaces; Line is where its header starts in the file.
type Record struct {
	Character string
	Text      string
	Index     int
	Line      int
}

// ParseTranslation reads a translation file. The returned slice is indexed
// by text block number; element 0 is an unused placeholder.
//
// A record is a header line starting with ○ followed, after any comment
// lines, by a live marker line starting with ●. The character name sits
// between the marker's second and last ●. Every following line up to the
// next header is body text; body lines are joined with '\n'.
func ParseTranslation(r io.Reader) ([]Record, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	records := []Record{{}}
	for i := 0; i < len(lines); {
		line := lines[i]
		if !strings.HasPrefix(line, headerGlyph) {
			if line == "" {
				i++
				continue
			}
			return nil, gserrors.TextLineup(i+1, "text before the first record header")
		}

		rec := Record{Line: i + 1, Index: len(records)}
		n, err := headerIndex(line)
		if err != nil {
			return nil, gserrors.TextLineup(i+1, err.Error())
		}
		if n != rec.Index {
			berr := gserrors.BlockIndexMismatch(gserrors.PhaseParse, rec.Index, n)
			berr.Path = []string{fmt.Sprintf("line %d", i+1)}
			return nil, berr
		}

		i++
		for i < len(lines) && !strings.HasPrefix(lines[i], markerGlyph) {
			if strings.HasPrefix(lines[i], headerGlyph) {
				return nil, gserrors.TextLineup(i+1, fmt.Sprintf("record %04d has no live marker", rec.Index))
			}
			i++
		}
		if i == len(lines) {
			return nil, gserrors.TextLineup(rec.Line, fmt.Sprintf("record %04d has no live marker", rec.Index))
		}
		rec.Character, err = markerCharacter(lines[i])
		if err != nil {
			return nil, gserrors.TextLineup(i+1, err.Error())
		}

		i++
		var body []string
		for i < len(lines) && !strings.HasPrefix(lines[i], headerGlyph) {
			body = append(body, lines[i])
			i++
		}
		rec.Text = strings.Join(body, "\n")

		records = append(records, rec)
	}
	return records, nil
}

func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var lines []string
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, bom)
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, gserrors.Wrap(gserrors.PhaseParse, gserrors.KindInvalidInput, err, "read translation file")
	}
	return lines, nil
}

// headerIndex reads NNNN from "○NNNN○...".
func headerIndex(line string) (int, error) {
	rest := strings.TrimPrefix(line, headerGlyph)
	end := strings.Index(rest, headerGlyph)
	if end < 0 {
		return 0, fmt.Errorf("malformed record header %q", line)
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, fmt.Errorf("malformed record number %q", rest[:end])
	}
	return n, nil
}

// markerCharacter returns the text between the second and last ● of a
// live marker line.
func markerCharacter(line string) (string, error) {
	rest := strings.TrimPrefix(line, markerGlyph)
	second := strings.Index(rest, markerGlyph)
	last := strings.LastIndex(rest, markerGlyph)
	if second < 0 || last == second {
		return "", fmt.Errorf("malformed live marker %q", line)
	}
	return rest[second+len(markerGlyph) : last], nil
}

package site

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rnamod/modcompare/internal/gene"
)

// BEDParser reads modification sites from a BED file (3 to 6+ columns).
// The site center is the midpoint of the [start, end) interval, matching
// how peak tables are compared positionally.
type BEDParser struct {
	file       *os.File
	gzipReader *gzip.Reader
	scanner    *bufio.Scanner
	path       string
	lineNumber int
	siteCount  int
}

// NewBEDParser opens a BED file for reading. Supports plain and gzipped
// files; "-" reads from stdin.
func NewBEDParser(path string) (*BEDParser, error) {
	if path == "-" {
		return NewBEDParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bed file: %w", err)
	}

	p := &BEDParser{file: file, path: path}

	// Sniff gzip magic bytes
	buf := make([]byte, 2)
	if _, err := file.Read(buf); err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read bed header: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek bed file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.scanner = bufio.NewScanner(p.gzipReader)
	} else {
		p.scanner = bufio.NewScanner(file)
	}

	return p, nil
}

// NewBEDParserFromReader creates a parser over an io.Reader.
func NewBEDParserFromReader(r io.Reader) *BEDParser {
	return &BEDParser{scanner: bufio.NewScanner(r)}
}

// Next returns the next site, or nil at end of input.
func (p *BEDParser) Next() (*Site, error) {
	for p.scanner.Scan() {
		p.lineNumber++
		line := strings.TrimRight(p.scanner.Text(), "\r\n")

		// Skip track lines, browser lines, comments, blanks
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}

		s, err := p.parseLine(line)
		if err != nil {
			return nil, err
		}
		p.siteCount++
		return s, nil
	}

	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan bed: %w", err)
	}
	return nil, nil
}

func (p *BEDParser) parseLine(line string) (*Site, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 {
		return nil, &ParseError{File: p.path, Line: p.lineNumber,
			Message: fmt.Sprintf("expected at least 3 fields, got %d", len(fields))}
	}

	start, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{File: p.path, Line: p.lineNumber,
			Message: fmt.Sprintf("invalid start %q", fields[1])}
	}
	end, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, &ParseError{File: p.path, Line: p.lineNumber,
			Message: fmt.Sprintf("invalid end %q", fields[2])}
	}
	if end < start {
		return nil, &ParseError{File: p.path, Line: p.lineNumber,
			Message: fmt.Sprintf("end %d before start %d", end, start)}
	}

	name := fmt.Sprintf("site_%d", p.siteCount)
	if len(fields) > 3 && fields[3] != "" && fields[3] != "." {
		name = fields[3]
	}

	s := New(name, fields[0], (start+end)/2, gene.StrandForward)

	if len(fields) > 4 && fields[4] != "" && fields[4] != "." {
		if score, err := strconv.ParseFloat(fields[4], 64); err == nil {
			s.Score = score
		}
	}
	if len(fields) > 5 {
		s.Strand = gene.ParseStrand(fields[5])
	}

	return s, nil
}

// ReadAll consumes the remaining input and returns all sites.
func (p *BEDParser) ReadAll() ([]*Site, error) {
	var sites []*Site
	for {
		s, err := p.Next()
		if err != nil {
			return nil, err
		}
		if s == nil {
			return sites, nil
		}
		sites = append(sites, s)
	}
}

// Close releases the underlying file handles.
func (p *BEDParser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ReadBED reads all sites from a BED file.
func ReadBED(path string) ([]*Site, error) {
	p, err := NewBEDParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ReadAll()
}

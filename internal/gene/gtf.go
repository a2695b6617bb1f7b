package gene

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// GTFLoader loads gene intervals from GENCODE-style GTF files.
// Only gene-level features are read; transcript and exon records are skipped
// because region classification works from the gene body alone.
type GTFLoader struct {
	path string
}

// NewGTFLoader creates a loader for the given GTF path (plain or .gz).
func NewGTFLoader(path string) *GTFLoader {
	return &GTFLoader{path: path}
}

// Load parses the GTF file and adds all gene features to the catalog.
func (l *GTFLoader) Load(c *Catalog) error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.parse(reader, c)
}

// parse reads GTF content and populates the catalog with gene features.
func (l *GTFLoader) parse(reader io.Reader, c *Catalog) error {
	scanner := bufio.NewScanner(reader)
	// GTF attribute columns can be long
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 9 {
			continue // skip malformed lines
		}
		if fields[2] != "gene" {
			continue
		}

		start, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			continue
		}

		attrs := parseAttributes(fields[8])
		name := attrs["gene_name"]
		if name == "" {
			name = attrs["gene_id"]
		}

		// GTF coordinates are 1-based inclusive; convert to 0-based half-open.
		g, err := New(name, fields[0], start-1, end, ParseStrand(fields[6]))
		if err != nil {
			continue
		}
		c.Add(g)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan GTF: %w", err)
	}
	return nil
}

// parseAttributes parses the GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}

		key := part[:idx]
		value := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"")
		attrs[key] = value
	}

	return attrs
}

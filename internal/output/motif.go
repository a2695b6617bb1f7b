package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rnamod/modcompare/internal/motif"
)

// WriteMotifMatrix writes a base-frequency matrix as CSV. Positions are
// reported relative to the modified base, which sits at offset flank.
func WriteMotifMatrix(w io.Writer, m *motif.Matrix, flank int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"position", "A", "U", "C", "G"}); err != nil {
		return err
	}
	for i, row := range m.Freq {
		rec := make([]string, 0, 5)
		rec = append(rec, strconv.Itoa(i-flank))
		for _, f := range row {
			rec = append(rec, strconv.FormatFloat(f, 'f', 4, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write motif matrix: %w", err)
	}
	return nil
}

package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rnamod/modcompare/internal/site"
)

// WriteBED6 writes sites as 6-column BED. Each site becomes a 1 bp
// interval at its center position.
func WriteBED6(w io.Writer, sites []*site.Site) error {
	bw := bufio.NewWriter(w)
	for _, s := range sites {
		_, err := fmt.Fprintf(bw, "%s\t%d\t%d\t%s\t%d\t%s\n",
			s.Chrom, s.Pos, s.Pos+1, s.ID, int64(s.Score), s.Strand)
		if err != nil {
			return fmt.Errorf("write bed: %w", err)
		}
	}
	return bw.Flush()
}

// Package annotate assigns transcript-region labels and relative positions
// to modification sites using a gene catalog.
package annotate

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/rnamod/modcompare/internal/gene"
	"github.com/rnamod/modcompare/internal/site"
)

// GeneLookup defines the interface for finding genes at a position.
type GeneLookup interface {
	FindGenes(chrom string, pos int64) []*gene.Gene
}

// Annotator labels sites with transcript regions.
type Annotator struct {
	catalog GeneLookup
	strict  bool
	logger  *zap.Logger
}

// NewAnnotator creates an annotator over the given catalog.
func NewAnnotator(c GeneLookup) *Annotator {
	return &Annotator{
		catalog: c,
		logger:  zap.NewNop(),
	}
}

// SetStrict configures whether classification failures inside an owning
// gene abort the batch. Sites outside every gene are labeled RegionOther in
// either mode; strictness only governs malformed inputs.
func (a *Annotator) SetStrict(strict bool) {
	a.strict = strict
}

// SetLogger sets the logger for warning messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Annotate labels a single site in place. Sites with no owning gene get
// RegionOther and an unset relative position.
func (a *Annotator) Annotate(s *site.Site) error {
	genes := a.catalog.FindGenes(s.Chrom, s.Pos)
	if len(genes) == 0 {
		s.Region = gene.RegionOther
		s.RelPos = math.NaN()
		s.Gene = ""
		return nil
	}

	// First catalog hit owns the site.
	g := genes[0]

	region, rel, err := gene.Classify(s.Pos, g)
	if err != nil {
		if a.strict {
			return fmt.Errorf("annotate %s: %w", s.ID, err)
		}
		s.Region = gene.RegionOther
		s.RelPos = math.NaN()
		return nil
	}

	s.Region = region
	s.RelPos = rel
	s.Gene = g.Name
	return nil
}

// AnnotateAll labels every site using a pool of workers. Input order is
// preserved. Returns the number of sites that fell outside every gene.
func (a *Annotator) AnnotateAll(sites []*site.Site) (intergenic int, err error) {
	items := make(chan WorkItem, len(sites))
	go func() {
		defer close(items)
		for i, s := range sites {
			items <- WorkItem{Seq: i, Site: s}
		}
	}()

	results := a.ParallelAnnotate(items, 0)

	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			if a.strict {
				return r.Err
			}
			a.logger.Warn("failed to annotate site",
				zap.String("id", r.Site.ID),
				zap.String("chrom", r.Site.Chrom),
				zap.Int64("pos", r.Site.Pos),
				zap.Error(r.Err))
			return nil
		}
		if r.Site.Region == gene.RegionOther && r.Site.Gene == "" {
			intergenic++
		}
		return nil
	}); err != nil {
		return intergenic, err
	}

	return intergenic, nil
}

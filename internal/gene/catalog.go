package gene

import "sort"

// Catalog provides position lookup over a set of gene intervals.
// Genes are grouped by normalized chromosome name so sources that disagree
// on the "chr" prefix still resolve against the same catalog.
type Catalog struct {
	genes map[string][]*Gene
	trees map[string]*IntervalTree
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		genes: make(map[string][]*Gene),
	}
}

// Add adds a gene to the catalog. Adding invalidates any index built by
// BuildIndex.
func (c *Catalog) Add(g *Gene) {
	chrom := NormalizeChrom(g.Chrom)
	c.genes[chrom] = append(c.genes[chrom], g)
	c.trees = nil
}

// BuildIndex builds per-chromosome interval indexes. Worth doing once the
// catalog holds more than a few hundred genes per chromosome; lookups fall
// back to a linear scan without it.
func (c *Catalog) BuildIndex() {
	c.trees = make(map[string]*IntervalTree, len(c.genes))
	for chrom, genes := range c.genes {
		c.trees[chrom] = BuildIntervalTree(genes)
	}
}

// FindGenes returns all genes whose body contains the given position.
func (c *Catalog) FindGenes(chrom string, pos int64) []*Gene {
	key := NormalizeChrom(chrom)
	if c.trees != nil {
		if tree, ok := c.trees[key]; ok {
			return tree.FindOverlaps(pos)
		}
		return nil
	}

	var result []*Gene
	for _, g := range c.genes[key] {
		if g.Contains(pos) {
			result = append(result, g)
		}
	}
	return result
}

// Owning returns the first gene containing the position, or nil.
func (c *Catalog) Owning(chrom string, pos int64) *Gene {
	genes := c.FindGenes(chrom, pos)
	if len(genes) == 0 {
		return nil
	}
	return genes[0]
}

// GeneCount returns the total number of genes in the catalog.
func (c *Catalog) GeneCount() int {
	count := 0
	for _, genes := range c.genes {
		count += len(genes)
	}
	return count
}

// Chromosomes returns a sorted list of normalized chromosome names.
func (c *Catalog) Chromosomes() []string {
	chroms := make([]string, 0, len(c.genes))
	for chrom := range c.genes {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}

// GenesByChrom returns all genes for a chromosome.
func (c *Catalog) GenesByChrom(chrom string) []*Gene {
	return c.genes[NormalizeChrom(chrom)]
}

// All returns every gene in the catalog in chromosome-sorted order.
func (c *Catalog) All() []*Gene {
	var result []*Gene
	for _, chrom := range c.Chromosomes() {
		result = append(result, c.genes[chrom]...)
	}
	return result
}

package gene

// Reference gene coordinates (GENCODE v44, hg38) used by the synthetic site
// generator when no annotation file is supplied.
var referenceGenes = []struct {
	chrom  string
	start  int64
	end    int64
	name   string
	strand Strand
}{
	{"chr1", 11874, 14409, "DDX11L1", StrandForward},
	{"chr1", 14363, 29806, "WASH7P", StrandReverse},
	{"chr1", 69091, 70008, "MIR1302-11", StrandForward},
	{"chr1", 144708, 295377, "FAM138A", StrandReverse},
	{"chr1", 315496, 318815, "MIR1302-2", StrandReverse},
	{"chr1", 321145, 321985, "MIR1302-10", StrandReverse},
	{"chr1", 321089, 321115, "OR4F5", StrandForward},
	{"chr1", 332629, 353141, "AL627309.1", StrandReverse},
	{"chr1", 354251, 354774, "MIR6859-1", StrandForward},
	{"chr1", 357172, 357641, "MIR6859-2", StrandReverse},
	{"chr2", 12840, 13265, "MIR1302-1", StrandForward},
	{"chr2", 11874, 12441, "WASH7P", StrandReverse},
	{"chr3", 60001, 61000, "RPL22P1", StrandForward},
	{"chr4", 55001, 56000, "C4orf33", StrandReverse},
	{"chr5", 128701, 129700, "SNORD104", StrandForward},
}

// ReferenceGenes returns the built-in gene table.
func ReferenceGenes() []*Gene {
	genes := make([]*Gene, 0, len(referenceGenes))
	for _, r := range referenceGenes {
		genes = append(genes, &Gene{
			Name:   r.name,
			Chrom:  r.chrom,
			Start:  r.start,
			End:    r.end,
			Strand: r.strand,
		})
	}
	return genes
}

// ReferenceCatalog returns an indexed catalog over the built-in gene table.
func ReferenceCatalog() *Catalog {
	c := NewCatalog()
	for _, g := range ReferenceGenes() {
		c.Add(g)
	}
	c.BuildIndex()
	return c
}

package xdiff

// File is an ordered sequence of Records together with the parallel
// sequence of minimal perfect hash ids assigned to each one. Both
// sequences are frozen once buildFile returns.
type File struct {
	Records []Record
	mph     []int32
}

func buildFile(blob []byte, flags Flags, b *mphBuilder) *File {
	recs := ParseRecords(blob, flags)
	mph := make([]int32, len(recs))
	for i, r := range recs {
		mph[i] = b.assign(r)
	}
	return &File{Records: recs, mph: mph}
}

// fileContext binds a File to its per-request consider array and
// compacted rindex, per §3's "File Context".
type fileContext struct {
	file     *File
	consider considerArray
	rindex   []int
}

func newFileContext(f *File) *fileContext {
	return &fileContext{
		file:     f,
		consider: newConsiderArray(len(f.Records)),
	}
}

func (fc *fileContext) len() int { return len(fc.file.Records) }

func (fc *fileContext) mphAt(i int) int32 { return fc.file.mph[i] }

func (fc *fileContext) recordAt(i int) Record { return fc.file.Records[i] }

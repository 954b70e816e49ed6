package token

// A File tracks line-start offsets for one source so that byte offsets can
// be translated into a Pos (line, column) for diagnostics.
type File struct {
	Name  string
	lines []int // byte offset of the start of each line; lines[0] == 0
}

// NewFile returns a File with a single line starting at offset 0.
func NewFile(name string) *File {
	return &File{Name: name, lines: []int{0}}
}

// AddLine records that a new line starts at the given byte offset. Offsets
// must be added in increasing order.
func (f *File) AddLine(offset int) {
	if n := len(f.lines); n > 0 && f.lines[n-1] >= offset {
		return
	}
	f.lines = append(f.lines, offset)
}

// Pos translates a byte offset into this file into a Pos.
func (f *File) Pos(offset int) Pos {
	// binary search for the line containing offset
	lo, hi := 0, len(f.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo + 1
	col := offset - f.lines[lo] + 1
	return MakePos(line, col)
}

package docgen

import (
	"strconv"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

// numberingLevelCount is how many indentation levels a generated list
// definition declares.
const numberingLevelCount = 9

// bulletGlyphs is the glyph/font cycle for bullet list levels.
var bulletGlyphs = []struct {
	text string
	font string
}{
	{"", "Symbol"},
	{"o", "Courier New"},
	{"", "Wingdings"},
}

// numberingAllocator hands out collision-free list definition and instance
// ids for one population call. It is seeded from the ids already present in
// the document's numbering part and appends every generated definition to
// that same part, so repeated conversions within one call keep counting from
// where the previous one stopped.
type numberingAllocator struct {
	numbering      *ooxml.Numbering
	nextAbstractID int
	nextInstanceID int
	allocated      bool
}

func newNumberingAllocator(numbering *ooxml.Numbering) *numberingAllocator {
	nextInstance := numbering.MaxNumID() + 1
	if nextInstance < 1 {
		// numId 0 means "no numbering" in a paragraph reference
		nextInstance = 1
	}
	return &numberingAllocator{
		numbering:      numbering,
		nextAbstractID: numbering.MaxAbstractID() + 1,
		nextInstanceID: nextInstance,
	}
}

// AllocateBullet creates a bullet list definition plus an instance of it and
// returns the instance id for paragraph references.
func (a *numberingAllocator) AllocateBullet() int {
	levels := make([]ooxml.Level, numberingLevelCount)
	for i := range levels {
		glyph := bulletGlyphs[i%len(bulletGlyphs)]
		levels[i] = ooxml.Level{
			Index:         i,
			Start:         1,
			Format:        "bullet",
			Text:          glyph.text,
			Font:          glyph.font,
			IndentLeft:    720 * (i + 1),
			IndentHanging: 360,
		}
	}
	return a.allocate(levels)
}

// AllocateDecimal creates a decimal list definition plus an instance of it
// and returns the instance id.
func (a *numberingAllocator) AllocateDecimal() int {
	levels := make([]ooxml.Level, numberingLevelCount)
	for i := range levels {
		levels[i] = ooxml.Level{
			Index:         i,
			Start:         1,
			Format:        "decimal",
			Text:          "%" + strconv.Itoa(i+1) + ".",
			IndentLeft:    720 * (i + 1),
			IndentHanging: 360,
		}
	}
	return a.allocate(levels)
}

func (a *numberingAllocator) allocate(levels []ooxml.Level) int {
	abstractID := a.nextAbstractID
	a.nextAbstractID++
	instanceID := a.nextInstanceID
	a.nextInstanceID++

	a.numbering.AbstractNums = append(a.numbering.AbstractNums, &ooxml.AbstractNum{
		ID:     abstractID,
		Levels: levels,
	})
	a.numbering.Nums = append(a.numbering.Nums, &ooxml.Num{
		ID:         instanceID,
		AbstractID: abstractID,
	})
	a.allocated = true
	return instanceID
}

// Modified reports whether any definition was generated, meaning the
// numbering part must be written back on save.
func (a *numberingAllocator) Modified() bool {
	return a.allocated
}

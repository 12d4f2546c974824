package docgen

import (
	"strconv"
	"strings"
	"testing"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

const existingNumberingXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:abstractNum w:abstractNumId="3"><w:multiLevelType w:val="hybridMultilevel"/></w:abstractNum>
<w:num w:numId="5"><w:abstractNumId w:val="3"/></w:num>
</w:numbering>`

func TestAllocatorSeedsFromEmptyPart(t *testing.T) {
	alloc := newNumberingAllocator(ooxml.NewNumbering())

	id := alloc.AllocateBullet()
	if id != 1 {
		t.Errorf("first instance id = %d, want 1", id)
	}
	if alloc.numbering.AbstractNums[0].ID != 0 {
		t.Errorf("first abstract id = %d, want 0", alloc.numbering.AbstractNums[0].ID)
	}
	if !alloc.Modified() {
		t.Error("allocator must report modification after allocating")
	}
}

func TestAllocatorSeedsPastExistingIDs(t *testing.T) {
	numbering, err := ooxml.ParseNumbering(strings.NewReader(existingNumberingXML))
	if err != nil {
		t.Fatalf("failed to parse numbering: %v", err)
	}
	alloc := newNumberingAllocator(numbering)

	id := alloc.AllocateDecimal()
	if id != 6 {
		t.Errorf("instance id = %d, want 6 (one past existing max 5)", id)
	}
	generated := numbering.AbstractNums[len(numbering.AbstractNums)-1]
	if generated.ID != 4 {
		t.Errorf("abstract id = %d, want 4 (one past existing max 3)", generated.ID)
	}
}

func TestAllocatorIDsNeverCollide(t *testing.T) {
	numbering, err := ooxml.ParseNumbering(strings.NewReader(existingNumberingXML))
	if err != nil {
		t.Fatalf("failed to parse numbering: %v", err)
	}
	alloc := newNumberingAllocator(numbering)

	seen := map[int]bool{5: true}
	for i := 0; i < 4; i++ {
		id := alloc.AllocateBullet()
		if seen[id] {
			t.Fatalf("instance id %d allocated twice", id)
		}
		seen[id] = true
	}

	abstractSeen := map[int]bool{}
	for _, an := range numbering.AbstractNums {
		if abstractSeen[an.ID] {
			t.Fatalf("abstract id %d appears twice", an.ID)
		}
		abstractSeen[an.ID] = true
	}
}

func TestAllocatorNotModifiedWithoutAllocation(t *testing.T) {
	alloc := newNumberingAllocator(ooxml.NewNumbering())
	if alloc.Modified() {
		t.Error("fresh allocator must not report modification")
	}
}

func TestGeneratedBulletDefinition(t *testing.T) {
	alloc := newNumberingAllocator(ooxml.NewNumbering())
	id := alloc.AllocateBullet()

	numbering := alloc.numbering
	if len(numbering.Nums) != 1 || numbering.Nums[0].ID != id {
		t.Fatalf("instance not registered: %+v", numbering.Nums)
	}
	levels := numbering.AbstractNums[0].Levels
	if len(levels) != numberingLevelCount {
		t.Fatalf("got %d levels, want %d", len(levels), numberingLevelCount)
	}
	for i, lvl := range levels {
		if lvl.Index != i {
			t.Errorf("level %d has index %d", i, lvl.Index)
		}
		if lvl.Format != "bullet" {
			t.Errorf("level %d format = %q", i, lvl.Format)
		}
		if lvl.IndentLeft != 720*(i+1) {
			t.Errorf("level %d indent = %d, want %d", i, lvl.IndentLeft, 720*(i+1))
		}
	}
	// The glyph set cycles every three levels
	if levels[0].Font != levels[3].Font || levels[0].Font == levels[1].Font {
		t.Errorf("glyph cycle broken: fonts %q %q %q %q",
			levels[0].Font, levels[1].Font, levels[2].Font, levels[3].Font)
	}
}

func TestNumberingMarshalContainsGeneratedDefinitions(t *testing.T) {
	alloc := newNumberingAllocator(ooxml.NewNumbering())
	id := alloc.AllocateDecimal()

	out, err := alloc.numbering.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	xml := string(out)
	for _, want := range []string{
		`<w:abstractNum w:abstractNumId="0">`,
		`<w:num w:numId="` + strconv.Itoa(id) + `">`,
		`<w:numFmt w:val="decimal"/>`,
		`<w:lvlText w:val="%1."/>`,
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("marshaled numbering missing %q", want)
		}
	}
}

package arena

import (
	"errors"
	"testing"

	linearsrgb "github.com/wippyai/linear-srgb"
	srgberrors "github.com/wippyai/linear-srgb/errors"
)

func TestBump_AllocF32Alignment(t *testing.T) {
	b := NewBump(New(0, 0))

	u8, err := b.AllocU8(3)
	if err != nil {
		t.Fatalf("AllocU8: %v", err)
	}
	f32, err := b.AllocF32(4)
	if err != nil {
		t.Fatalf("AllocF32: %v", err)
	}
	if f32%AlignF32 != 0 {
		t.Errorf("AllocF32 returned unaligned offset %d", f32)
	}
	if f32 < u8+3 {
		t.Errorf("blocks overlap: u8 at %d (3 bytes), f32 at %d", u8, f32)
	}
}

func TestBump_BlocksDoNotOverlap(t *testing.T) {
	b := NewBump(New(0, 0))
	type block struct{ ptr, size uint32 }
	var blocks []block
	sizes := []uint32{1, 7, 4096, 3, 70000, 12, 65536}
	for _, n := range sizes {
		ptr, err := b.AllocF32(n)
		if err != nil {
			t.Fatalf("AllocF32(%d): %v", n, err)
		}
		blocks = append(blocks, block{ptr, n * 4})
	}
	for i := range blocks {
		for j := i + 1; j < len(blocks); j++ {
			a, c := blocks[i], blocks[j]
			if a.ptr < c.ptr+c.size && c.ptr < a.ptr+a.size {
				t.Errorf("block %d [%d,+%d) overlaps block %d [%d,+%d)", i, a.ptr, a.size, j, c.ptr, c.size)
			}
		}
	}
}

func TestBump_GrowsByPages(t *testing.T) {
	a := New(0, 0)
	b := NewBump(a)

	if _, err := b.AllocU8(10); err != nil {
		t.Fatalf("AllocU8: %v", err)
	}
	if a.Pages() != 1 {
		t.Errorf("Pages() = %d, want 1", a.Pages())
	}

	ptr, err := b.AllocU8(linearsrgb.PageSize)
	if err != nil {
		t.Fatalf("AllocU8(page): %v", err)
	}
	if ptr != 10 {
		t.Errorf("contiguous block should continue at 10, got %d", ptr)
	}
	if a.Pages() != 2 {
		t.Errorf("Pages() = %d, want 2", a.Pages())
	}
}

func TestBump_ZeroSize(t *testing.T) {
	a := New(0, 0)
	b := NewBump(a)

	first, err := b.AllocF32(0)
	if err != nil {
		t.Fatalf("AllocF32(0): %v", err)
	}
	if a.Size() != 0 {
		t.Errorf("zero-size alloc grew the region to %d bytes", a.Size())
	}
	second, _ := b.AllocU8(0)
	if first != second {
		t.Errorf("zero-size allocs should not advance: %d then %d", first, second)
	}

	ptr, err := b.AllocU8(1)
	if err != nil {
		t.Fatalf("AllocU8(1): %v", err)
	}
	if ptr != first {
		t.Errorf("first real block at %d, want %d", ptr, first)
	}
}

func TestBump_SkipsForeignPages(t *testing.T) {
	a := New(1, 0)
	b := NewBump(a)

	ptr, err := b.AllocU8(16)
	if err != nil {
		t.Fatalf("AllocU8: %v", err)
	}
	if ptr != linearsrgb.PageSize {
		t.Errorf("existing pages must be skipped, got ptr %d", ptr)
	}

	// Someone else grows the region past our range.
	if _, err := a.Grow(2); err != nil {
		t.Fatalf("Grow: %v", err)
	}

	ptr, err = b.AllocU8(linearsrgb.PageSize)
	if err != nil {
		t.Fatalf("AllocU8: %v", err)
	}
	if ptr != 4*linearsrgb.PageSize {
		t.Errorf("new range should start after foreign pages, got %d", ptr)
	}
}

func TestBump_Limit(t *testing.T) {
	b := NewBump(New(0, 1))
	if _, err := b.AllocU8(linearsrgb.PageSize); err != nil {
		t.Fatalf("AllocU8(page): %v", err)
	}
	_, err := b.AllocU8(1)
	if !errors.Is(err, &srgberrors.Error{Phase: srgberrors.PhaseAlloc, Kind: srgberrors.KindAllocation}) {
		t.Errorf("error = %v, want allocation failure", err)
	}
}

func TestBump_Overflow(t *testing.T) {
	b := NewBump(New(0, 0))
	_, err := b.AllocF32(1 << 30)
	if !errors.Is(err, &srgberrors.Error{Phase: srgberrors.PhaseAlloc, Kind: srgberrors.KindOverflow}) {
		t.Errorf("error = %v, want overflow", err)
	}
}

func TestBump_BadAlignment(t *testing.T) {
	b := NewBump(New(0, 0))
	for _, align := range []uint32{0, 3, 12} {
		if _, err := b.Alloc(8, align); err == nil {
			t.Errorf("Alloc(8, %d) should fail", align)
		}
	}
}

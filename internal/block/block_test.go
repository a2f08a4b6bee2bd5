package block

import (
	"bytes"
	"testing"
)

func TestPartitionSingleBlockForSmallFile(t *testing.T) {
	data := []byte("a\nb\nc\n")
	blocks := Partition(data, 8)
	if len(blocks) != 1 {
		t.Fatalf("expected a single block for a small file, got %d", len(blocks))
	}
	if blocks[0].Size != uint64(len(data)) {
		t.Fatalf("expected block to cover the whole file, got size %d", blocks[0].Size)
	}
}

func TestPartitionCoversWholeFile(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 30000; i++ {
		buf.WriteString("line number with some padding to grow the file\n")
	}
	data := buf.Bytes()

	blocks := Partition(data, 4)
	if len(blocks) < 2 {
		t.Fatalf("expected multiple blocks for a large file, got %d", len(blocks))
	}

	var total uint64
	for i, b := range blocks {
		if !b.Active {
			t.Fatalf("block %d should be active", i)
		}
		total += b.Size
		if i > 0 {
			prevEnd := blocks[i-1].ByteOffset + blocks[i-1].Size
			if prevEnd != b.ByteOffset {
				t.Fatalf("block %d does not start where block %d ends: %d != %d", i, i-1, b.ByteOffset, prevEnd)
			}
		}
		if b.ByteOffset+b.Size > 0 && b.Size > 0 {
			end := b.ByteOffset + b.Size
			if end <= uint64(len(data)) && end > 0 {
				// every block but the last should end right after a newline
				if i < len(blocks)-1 && data[end-1] != '\n' {
					t.Fatalf("block %d does not end on a newline boundary", i)
				}
			}
		}
	}
	if total != uint64(len(data)) {
		t.Fatalf("blocks do not cover the whole file: total %d, want %d", total, len(data))
	}
}

func TestPartitionNeverExceedsMaxBlockCount(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 200000; i++ {
		buf.WriteString("x\n")
	}
	blocks := Partition(buf.Bytes(), 128)
	if len(blocks) > 40 {
		t.Fatalf("expected at most 40 blocks, got %d", len(blocks))
	}
}

func TestPartitionHandlesMissingTrailingNewline(t *testing.T) {
	data := []byte("line one\nline two\nline three, no trailing newline")
	blocks := Partition(data, 4)
	var total uint64
	for _, b := range blocks {
		total += b.Size
	}
	if total != uint64(len(data)) {
		t.Fatalf("expected full coverage despite missing trailing newline, got %d want %d", total, len(data))
	}
	last := blocks[len(blocks)-1]
	if last.ByteOffset+last.Size != uint64(len(data)) {
		t.Fatalf("last block should reach end of file")
	}
}

package zip

import "testing"

func TestEOCDNeedsZip64WhenCdSizeAtSentinel(t *testing.T) {
	e := eocdRecord{cdSize: 0xFFFFFFFF}
	if !e.needsZip64() {
		t.Error("expected needsZip64 true when cd_size is at sentinel")
	}
}

func TestEOCDDoesNotNeedZip64ForOrdinaryValues(t *testing.T) {
	e := eocdRecord{numRecords: 12, cdSize: 4096, cdStartOffset: 1024}
	if e.needsZip64() {
		t.Error("expected needsZip64 false for ordinary small values")
	}
}

func TestCentralDirEntryNeedsZip64WhenLocalHeaderOffsetAtSentinel(t *testing.T) {
	c := centralDirEntry{localHeaderOff: 0xFFFFFFFF}
	if !c.needsZip64() {
		t.Error("expected needsZip64 true when local_header_offset is at sentinel")
	}
}

func TestDecodeCentralDirEntryFieldOffsets(t *testing.T) {
	b := make([]byte, centralDirFixedSize)
	// versionNeeded at bytes 6:8
	b[6], b[7] = 0x14, 0x00
	// fileNameLength at bytes 28:30
	b[28], b[29] = 0x05, 0x00
	c := decodeCentralDirEntry(b)
	if c.versionNeeded != 20 {
		t.Errorf("expected versionNeeded 20, got %d", c.versionNeeded)
	}
	if c.fileNameLength != 5 {
		t.Errorf("expected fileNameLength 5, got %d", c.fileNameLength)
	}
}

package zip

// eocdRecord is the 22-byte fixed End-of-Central-Directory record
// (APPNOTE 4.3.16), decoded without its trailing comment.
type eocdRecord struct {
	diskNum           uint16
	cdStartDisk       uint16
	numRecordsOnDisk  uint16
	numRecords        uint16
	cdSize            uint32
	cdStartOffset     uint32
	commentLength     uint16
}

func decodeEOCD(b []byte) eocdRecord {
	return eocdRecord{
		diskNum:          le16(b[4:6]),
		cdStartDisk:      le16(b[6:8]),
		numRecordsOnDisk: le16(b[8:10]),
		numRecords:       le16(b[10:12]),
		cdSize:           le32(b[12:16]),
		cdStartOffset:    le32(b[16:20]),
		commentLength:    le16(b[20:22]),
	}
}

// needsZip64 reports whether any base field is at its sentinel max,
// per APPNOTE 4.3.15 / the spec's §4.5 step 2.
func (e eocdRecord) needsZip64() bool {
	return e.diskNum == sentinel16 ||
		e.cdStartDisk == sentinel16 ||
		e.numRecordsOnDisk == sentinel16 ||
		e.numRecords == sentinel16 ||
		e.cdSize == uint32(0xFFFFFFFF) ||
		e.cdStartOffset == uint32(0xFFFFFFFF)
}

// eocd64Locator is the 20-byte ZIP64 EOCD Locator (APPNOTE 4.3.15).
type eocd64Locator struct {
	eocdStartDisk  uint32
	zip64EOCDOffset uint64
	numDisks       uint32
}

func decodeEOCD64Locator(b []byte) eocd64Locator {
	return eocd64Locator{
		eocdStartDisk:   le32(b[4:8]),
		zip64EOCDOffset: le64(b[8:16]),
		numDisks:        le32(b[16:20]),
	}
}

// eocd64Record is the ZIP64 EOCD (APPNOTE 4.3.14), using its 64-bit
// fields as authoritative overrides of the classic EOCD.
type eocd64Record struct {
	recordSize       uint64
	versionMadeBy    uint16
	versionNeeded    uint16
	diskNum          uint32
	cdStartDisk      uint32
	numRecordsOnDisk uint64
	numRecords       uint64
	cdSize           uint64
	cdStartOffset    uint64
}

func decodeEOCD64(b []byte) eocd64Record {
	return eocd64Record{
		recordSize:       le64(b[4:12]),
		versionMadeBy:    le16(b[12:14]),
		versionNeeded:    le16(b[14:16]),
		diskNum:          le32(b[16:20]),
		cdStartDisk:      le32(b[20:24]),
		numRecordsOnDisk: le64(b[24:32]),
		numRecords:       le64(b[32:40]),
		cdSize:           le64(b[40:48]),
		cdStartOffset:    le64(b[48:56]),
	}
}

// centralDirEntry is the 46-byte fixed Central Directory File Header
// (APPNOTE 4.3.12), before filename/extra/comment and before any
// ZIP64 extra-field overrides are applied.
type centralDirEntry struct {
	versionMadeBy    uint16
	versionNeeded    uint16
	gpbFlags         uint16
	compressionMeth  uint16
	lastModTime      uint16
	lastModDate      uint16
	crc32            uint32
	compressedSize   uint32
	uncompressedSize uint32
	fileNameLength   uint16
	extraFieldLength uint16
	commentLength    uint16
	diskStart        uint16
	intFileAttrs     uint16
	extFileAttrs     uint32
	localHeaderOff   uint32
}

func decodeCentralDirEntry(b []byte) centralDirEntry {
	return centralDirEntry{
		versionMadeBy:    le16(b[4:6]),
		versionNeeded:    le16(b[6:8]),
		gpbFlags:         le16(b[8:10]),
		compressionMeth:  le16(b[10:12]),
		lastModTime:      le16(b[12:14]),
		lastModDate:      le16(b[14:16]),
		crc32:            le32(b[16:20]),
		compressedSize:   le32(b[20:24]),
		uncompressedSize: le32(b[24:28]),
		fileNameLength:   le16(b[28:30]),
		extraFieldLength: le16(b[30:32]),
		commentLength:    le16(b[32:34]),
		diskStart:        le16(b[34:36]),
		intFileAttrs:     le16(b[36:38]),
		extFileAttrs:     le32(b[38:42]),
		localHeaderOff:   le32(b[42:46]),
	}
}

func (c centralDirEntry) needsZip64() bool {
	return c.uncompressedSize == uint32(0xFFFFFFFF) ||
		c.compressedSize == uint32(0xFFFFFFFF) ||
		c.localHeaderOff == uint32(0xFFFFFFFF) ||
		c.diskStart == sentinel16
}

package zip

// On-disk little-endian magic numbers, APPNOTE 6.3.x.
const (
	magicCentralDirEntry  = 0x02014b50
	magicEOCD             = 0x06054b50
	magicEOCD64Locator    = 0x07064b50
	magicEOCD64           = 0x06064b50
	zip64ExtraFieldTag    = 0x0001
	gpbUTF8Flag           = 0x0800 // GPB bit 11
	sentinel16            = 0xFFFF
	sentinel32      int64 = 0xFFFFFFFF
)

// Fixed-layout record sizes, not counting variable-length trailers.
const (
	eocdFixedSize         = 22 // magic(4) + 18 more bytes
	eocd64LocatorSize     = 20 // magic(4) + 16 more bytes
	eocd64MaxSize         = 56 // magic(4) + up to 52 more bytes
	centralDirFixedSize   = 46 // magic(4) + 42 more bytes
	maxEOCDSearchWindow   = 65_557
)

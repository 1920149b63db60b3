package outfit

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	blockSize = 512

	nameOffset = 0
	nameLen    = 100
	modeOffset = 100
	uidOffset  = 108
	gidOffset  = 116
	sizeOffset = 124
	sizeLen    = 12
	mtimeOff   = 136
	chkOffset  = 148
	chkLen     = 8
	typeOffset = 156
	magicOff   = 257
)

// Archive maps entry names to their payloads. It is built once per bundle
// and must be treated as read-only afterwards: payloads alias the bundle.
type Archive map[string][]byte

// Entry is a named payload used when writing archives.
type Entry struct {
	Name string
	Data []byte
}

// Get returns the payload stored under name.
func (a Archive) Get(name string) ([]byte, bool) {
	b, ok := a[name]
	return b, ok
}

// Names returns the entry names in lexical order.
func (a Archive) Names() []string {
	names := make([]string, 0, len(a))
	for n := range a {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Size returns the summed payload length of all entries.
func (a Archive) Size() int {
	n := 0
	for _, b := range a {
		n += len(b)
	}
	return n
}

// ParseArchive reads the subset of the tar format produced by the asset
// build: 512-byte headers carrying a NUL-terminated name and an octal size,
// each followed by the payload padded to the next block. Parsing stops at an
// all-zero block or when less than one block remains. Checksums, magic and
// type flags are not inspected.
func ParseArchive(data []byte) (Archive, error) {
	files := make(Archive)
	var zero [blockSize]byte
	offset := 0
	for offset+blockSize <= len(data) {
		hdr := data[offset : offset+blockSize]
		if bytes.Equal(hdr, zero[:]) {
			break
		}
		name := cString(hdr[nameOffset : nameOffset+nameLen])
		size, err := parseOctal(hdr[sizeOffset : sizeOffset+sizeLen])
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q at offset %d: %v", ErrMalformedArchive, name, offset, err)
		}
		start := offset + blockSize
		if size > uint64(len(data)-start) {
			return nil, fmt.Errorf("%w: entry %q declares %d bytes, %d remain", ErrMalformedArchive, name, size, len(data)-start)
		}
		end := start + int(size)
		files[name] = data[start:end:end]
		offset = start + padBlock(int(size))
	}
	return files, nil
}

// WriteArchive encodes entries as a ustar stream readable by ParseArchive and
// by standard tar tools. Names longer than 100 bytes are rejected.
func WriteArchive(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range entries {
		if len(e.Name) == 0 || len(e.Name) > nameLen {
			return nil, fmt.Errorf("invalid entry name %q", e.Name)
		}
		var hdr [blockSize]byte
		copy(hdr[nameOffset:], e.Name)
		copy(hdr[modeOffset:], "0000644\x00")
		copy(hdr[uidOffset:], "0000000\x00")
		copy(hdr[gidOffset:], "0000000\x00")
		copy(hdr[sizeOffset:], fmt.Sprintf("%011o\x00", len(e.Data)))
		copy(hdr[mtimeOff:], "00000000000\x00")
		hdr[typeOffset] = '0'
		copy(hdr[magicOff:], "ustar\x0000")

		// checksum is computed with its own field set to spaces
		copy(hdr[chkOffset:chkOffset+chkLen], "        ")
		sum := 0
		for _, b := range hdr {
			sum += int(b)
		}
		copy(hdr[chkOffset:], fmt.Sprintf("%06o\x00 ", sum))

		buf.Write(hdr[:])
		buf.Write(e.Data)
		if pad := padBlock(len(e.Data)) - len(e.Data); pad > 0 {
			buf.Write(make([]byte, pad))
		}
	}
	// end-of-archive marker
	buf.Write(make([]byte, 2*blockSize))
	return buf.Bytes(), nil
}

func padBlock(n int) int {
	return (n + blockSize - 1) &^ (blockSize - 1)
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func parseOctal(b []byte) (uint64, error) {
	s := strings.TrimSpace(cString(b))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 8, 64)
}

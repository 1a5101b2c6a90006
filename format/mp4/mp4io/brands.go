package mp4io

import (
	"fmt"
	"io"

	"github.com/ugparu/isobmff/utils/bits/pio"
)

const (
	FTYP                = Tag(0x66747970)
	STYP                = Tag(0x73747970)
	baseBrandsLen       = 8
	bytesPerBrand       = 4
	defaultMinorVersion = 0x200
)

// Brands is the payload shared by ftyp and styp.
type Brands struct {
	MajorBrand       Tag    `json:"major_brand"`
	MinorVersion     uint32 `json:"minor_version"`
	CompatibleBrands []Tag  `json:"compatible_brands"`
}

func (br Brands) payloadLen() uint64 {
	return uint64(baseBrandsLen + bytesPerBrand*len(br.CompatibleBrands))
}

func (br Brands) marshal(w io.Writer, tag Tag) (uint64, error) {
	b := make([]byte, br.payloadLen())
	pio.PutU32BE(b[0:], uint32(br.MajorBrand))
	pio.PutU32BE(b[4:], br.MinorVersion)
	for i, v := range br.CompatibleBrands {
		pio.PutU32BE(b[baseBrandsLen+bytesPerBrand*i:], uint32(v))
	}
	return writeBox(w, tag, b)
}

func (br *Brands) unmarshal(r Reader, h BoxHeader) error {
	b, err := readPayload(r, h)
	if err != nil {
		return err
	}
	if len(b) < baseBrandsLen {
		return parseErr("MajorBrand", h.PayloadOffset(), io.ErrUnexpectedEOF)
	}
	br.MajorBrand = Tag(pio.U32BE(b[0:]))
	br.MinorVersion = pio.U32BE(b[4:])
	br.CompatibleBrands = nil
	for n := baseBrandsLen; n+bytesPerBrand <= len(b); n += bytesPerBrand {
		br.CompatibleBrands = append(br.CompatibleBrands, Tag(pio.U32BE(b[n:])))
	}
	return nil
}

func (br Brands) String() string {
	return fmt.Sprintf("major=%s minor=%d compatible=%v", br.MajorBrand, br.MinorVersion, br.CompatibleBrands)
}

// Has reports whether brand is the major brand or a compatible one.
func (br Brands) Has(brand Tag) bool {
	if br.MajorBrand == brand {
		return true
	}
	for _, b := range br.CompatibleBrands {
		if b == brand {
			return true
		}
	}
	return false
}

// FileType is an ftyp box.
type FileType struct {
	Brands
}

func NewFileType() *FileType {
	return &FileType{Brands{
		MajorBrand:       StringToTag("isom"),
		MinorVersion:     defaultMinorVersion,
		CompatibleBrands: []Tag{StringToTag("iso6"), StringToTag("mp41")},
	}}
}

func (FileType) Tag() Tag {
	return FTYP
}

func (f FileType) Len() uint64 {
	return HeaderSize + f.payloadLen()
}

func (f FileType) Marshal(w io.Writer) (uint64, error) {
	return f.marshal(w, FTYP)
}

func (f *FileType) Unmarshal(r Reader, h BoxHeader) error {
	return f.unmarshal(r, h)
}

func (FileType) Children() []Box {
	return nil
}

// SegmentType is an styp box, the ftyp of a media segment.
type SegmentType struct {
	Brands
}

func NewSegmentType() *SegmentType {
	return &SegmentType{Brands{
		MajorBrand:       StringToTag("msdh"),
		CompatibleBrands: []Tag{StringToTag("msdh"), StringToTag("msix")},
	}}
}

func (SegmentType) Tag() Tag {
	return STYP
}

func (s SegmentType) Len() uint64 {
	return HeaderSize + s.payloadLen()
}

func (s SegmentType) Marshal(w io.Writer) (uint64, error) {
	return s.marshal(w, STYP)
}

func (s *SegmentType) Unmarshal(r Reader, h BoxHeader) error {
	return s.unmarshal(r, h)
}

func (SegmentType) Children() []Box {
	return nil
}

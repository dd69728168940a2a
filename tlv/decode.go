package tlv

import (
	"wobbegong.dev/asn1"
)

// ReadIdentifier consumes one identifier octet. Bits 8 and 7 hold the class,
// bit 6 the constructed flag and bits 5 to 1 the tag number.
//
// The high-tag-number form (tag bits all set) fails with an
// [*asn1.UnsupportedTagError], as does a universal tag number without an
// assigned type. Tag numbers of other classes are not interpreted.
func (r *Reader) ReadIdentifier() (Identifier, error) {
	off := r.Offset()
	b, err := r.ReadByte()
	if err != nil {
		return Identifier{}, &asn1.StructuralError{Offset: off, Err: errMissingIdentifier}
	}
	id := Identifier{
		Class:       asn1.Class(b >> 6),
		Constructed: b&0x20 != 0,
		Tag:         asn1.Tag(b & 0x1f),
	}
	if id.Tag == asn1.TagHighNumber {
		return Identifier{}, &asn1.UnsupportedTagError{Offset: off, Class: id.Class, Number: id.Tag}
	}
	if id.Class == asn1.ClassUniversal {
		if _, ok := asn1.LookupTag(uint8(id.Tag)); !ok {
			return Identifier{}, &asn1.UnsupportedTagError{Offset: off, Class: id.Class, Number: id.Tag}
		}
	}
	return id, nil
}

// ReadLengthOctet consumes the initial length octet. The indefinite form
// (0x80) and the reserved value 0xFF are rejected.
func (r *Reader) ReadLengthOctet() (LengthOctet, error) {
	off := r.Offset()
	b, err := r.ReadByte()
	if err != nil {
		return LengthOctet{}, &asn1.StructuralError{Offset: off, Err: errMissingLength}
	}
	switch {
	case b == 0x80:
		return LengthOctet{}, &asn1.StructuralError{Offset: off, Err: errIndefiniteLength}
	case b == 0xff:
		return LengthOctet{}, &asn1.StructuralError{Offset: off, Err: errReservedLength}
	case b&0x80 != 0:
		return LengthOctet{LongForm: true, Count: int(b & 0x7f)}, nil
	default:
		return LengthOctet{Count: int(b)}, nil
	}
}

// ReadLength consumes the length octets of a TLV and returns the length of
// its value. In the long form the subsequent octets are interpreted as an
// unsigned big-endian integer. The length must fit into an int.
//
// Non-minimal long-form lengths are accepted.
func (r *Reader) ReadLength() (int, error) {
	off := r.Offset()
	lo, err := r.ReadLengthOctet()
	if err != nil {
		return 0, err
	}
	if !lo.LongForm {
		return lo.Count, nil
	}
	bs, err := r.Next(lo.Count)
	if err != nil {
		return 0, &asn1.StructuralError{Offset: off, Err: errShortLength}
	}
	length := 0
	for _, b := range bs {
		if length > maxLength>>8 {
			// We can't shift length up without overflowing.
			return 0, &asn1.StructuralError{Offset: off, Err: errLengthTooLarge}
		}
		length = length<<8 | int(b)
	}
	return length, nil
}

// ReadHeader consumes an identifier octet and the length octets.
func (r *Reader) ReadHeader() (Header, error) {
	id, err := r.ReadIdentifier()
	if err != nil {
		return Header{}, err
	}
	length, err := r.ReadLength()
	if err != nil {
		return Header{}, err
	}
	return Header{Identifier: id, Length: length}, nil
}

package varint

import (
	"encoding/binary"
	"errors"
)

// Pack8 packs a uint8 into a VarInt.
func Pack8(n uint8) []byte {
	if n < 128 {
		return []byte{n}
	}
	return []byte{n, 0x01}
}

// Pack16 packs a uint16 into a VarInt.
func Pack16(n uint16) []byte {
	buf := make([]byte, 3)
	w := binary.PutUvarint(buf, uint64(n))
	return buf[:w]
}

// Pack64 packs a uint64 into a VarInt.
func Pack64(n uint64) []byte {
	buf := make([]byte, binary.MaxVarintLen64)
	w := binary.PutUvarint(buf, n)
	return buf[:w]
}

// Unpack8 unpacks a VarInt into a uint8. It returns the extracted int, how many bytes were used and an error.
func Unpack8(blob []byte) (uint8, int, error) {
	if len(blob) < 1 {
		return 0, 0, errEmptyBuf
	}
	if blob[0] < 128 {
		return blob[0], 1, nil
	}
	if len(blob) < 2 {
		return 0, 0, errTooSmall
	}
	if blob[1] != 0x01 {
		return 0, 0, &valueExceededError{max: "255"}
	}
	return blob[0], 2, nil
}

// Unpack16 unpacks a VarInt into a uint16. It returns the extracted int, how many bytes were used and an error.
func Unpack16(blob []byte) (uint16, int, error) {
	n, r := binary.Uvarint(blob)
	switch {
	case r == 0:
		return 0, 0, errTooSmall
	case r < 0:
		return 0, 0, errors.New("varint: overflow")
	case n > 65535:
		return 0, 0, &valueExceededError{max: "65535"}
	}
	return uint16(n), r, nil
}

// Unpack64 unpacks a VarInt into a uint64. It returns the extracted int, how many bytes were used and an error.
func Unpack64(blob []byte) (uint64, int, error) {
	n, r := binary.Uvarint(blob)
	switch {
	case r == 0:
		return 0, 0, errTooSmall
	case r < 0:
		return 0, 0, errors.New("varint: overflow")
	}
	return n, r, nil
}

// GetNextBlock extracts the length-prefixed block at the start of data and
// returns it together with the total number of bytes consumed.
func GetNextBlock(data []byte) ([]byte, int, error) {
	l, n, err := Unpack64(data)
	if err != nil {
		return nil, 0, err
	}
	length := int(l)
	totalLength := length + n
	if totalLength > len(data) {
		return nil, 0, errTooSmall
	}
	return data[n:totalLength], totalLength, nil
}

// PrependLength prepends the varint encoded length of the byte slice to itself.
func PrependLength(data []byte) []byte {
	return append(Pack64(uint64(len(data))), data...)
}

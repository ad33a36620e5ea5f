package kbin

import "encoding/binary"

// AppendInt8 appends a big-endian INT8 to dst.
func AppendInt8(dst []byte, v int8) []byte { return append(dst, byte(v)) }

// AppendUint8 appends a big-endian UINT8 to dst.
func AppendUint8(dst []byte, v uint8) []byte { return append(dst, v) }

// AppendBool appends a single byte: 1 if v, else 0.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

// AppendInt16 appends a big-endian INT16 to dst.
func AppendInt16(dst []byte, v int16) []byte {
	return binary.BigEndian.AppendUint16(dst, uint16(v))
}

// AppendUint16 appends a big-endian UINT16 to dst.
func AppendUint16(dst []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, v)
}

// AppendInt32 appends a big-endian INT32 to dst.
func AppendInt32(dst []byte, v int32) []byte {
	return binary.BigEndian.AppendUint32(dst, uint32(v))
}

// AppendUint32 appends a big-endian UINT32 to dst.
func AppendUint32(dst []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, v)
}

// AppendInt64 appends a big-endian INT64 to dst.
func AppendInt64(dst []byte, v int64) []byte {
	return binary.BigEndian.AppendUint64(dst, uint64(v))
}

// AppendUint64 appends a big-endian UINT64 to dst.
func AppendUint64(dst []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(dst, v)
}

// AppendUvarint appends an unsigned variable-length integer in Kafka's
// raw (non-zigzag) form.
func AppendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// AppendVarint appends a non-negative integer using the same raw
// encoding as AppendUvarint; this system never needs to encode negative
// varints (spec §3).
func AppendVarint(dst []byte, v int64) []byte {
	return AppendUvarint(dst, uint64(v))
}

// AppendNullableString appends a legacy nullable Kafka string. An empty
// string is written as a zero-length string, not null; callers that
// need to emit null use AppendNullableStringPtr.
func AppendNullableString(dst []byte, s string) []byte {
	dst = AppendInt16(dst, int16(len(s)))
	return append(dst, s...)
}

// AppendNullableStringPtr appends a legacy nullable Kafka string, -1
// length when s is nil.
func AppendNullableStringPtr(dst []byte, s *string) []byte {
	if s == nil {
		return AppendInt16(dst, -1)
	}
	return AppendNullableString(dst, *s)
}

// AppendString appends a non-nullable legacy Kafka string.
func AppendString(dst []byte, s string) []byte {
	return AppendNullableString(dst, s)
}

// AppendCompactString appends a flexible-version COMPACT_STRING. The
// single-byte length limitation noted in spec §9 does not apply here:
// the length prefix is emitted as a full unsigned varint, so lengths beyond what a single
// byte can hold are still correct (unlike implementations that
// hand-roll a single length byte and silently corrupt longer strings).
func AppendCompactString(dst []byte, s string) []byte {
	dst = AppendUvarint(dst, uint64(len(s))+1)
	return append(dst, s...)
}

// AppendCompactNullableBytes appends a flexible-version
// COMPACT_NULLABLE_BYTES field. nil is written as null (the varint 0),
// and an empty-but-present byte slice is likewise written as null.
func AppendCompactNullableBytes(dst []byte, b []byte) []byte {
	if len(b) == 0 {
		return AppendUvarint(dst, 0)
	}
	dst = AppendUvarint(dst, uint64(len(b))+1)
	return append(dst, b...)
}

// AppendArrayLen appends a legacy ARRAY length prefix.
func AppendArrayLen(dst []byte, n int) []byte {
	return AppendInt32(dst, int32(n))
}

// AppendCompactArrayLen appends a flexible-version COMPACT_ARRAY length
// prefix. An empty (but non-null) array is length+1 = 1, i.e. 0x01;
// conflating null with empty is intentional for this system's
// non-nullable arrays (spec §8).
func AppendCompactArrayLen(dst []byte, n int) []byte {
	return AppendUvarint(dst, uint64(n)+1)
}

// AppendUUID appends 16 raw UUID bytes.
func AppendUUID(dst []byte, raw [16]byte) []byte {
	return append(dst, raw[:]...)
}

// AppendTagBuffer appends an empty tag buffer. Writers in this system
// never emit tagged fields (spec §3).
func AppendTagBuffer(dst []byte) []byte {
	return AppendUvarint(dst, 0)
}

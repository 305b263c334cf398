package resp

import "strconv"

// Serialize renders v in its canonical RESP wire encoding. It is the
// exact inverse of Deserialize for every non-null value: Deserialize
// on Serialize(v)'s output returns v back.
func Serialize(v Value) []byte {
	buf := make([]byte, 0, ByteLength(v))
	return appendValue(buf, v)
}

func appendValue(buf []byte, v Value) []byte {
	switch v.Type {
	case SimpleString, Error:
		buf = append(buf, byte(v.Type))
		buf = append(buf, v.Str...)
		buf = append(buf, CRLF...)
	case Integer:
		buf = append(buf, byte(Integer))
		buf = strconv.AppendInt(buf, v.Int, 10)
		buf = append(buf, CRLF...)
	case Bulk:
		if v.BulkNull {
			buf = append(buf, "$-1"...)
			buf = append(buf, CRLF...)
			return buf
		}
		buf = append(buf, byte(Bulk))
		buf = strconv.AppendInt(buf, int64(len(v.Bulk)), 10)
		buf = append(buf, CRLF...)
		buf = append(buf, v.Bulk...)
		buf = append(buf, CRLF...)
	case Array:
		if v.ArrayNull {
			buf = append(buf, "*-1"...)
			buf = append(buf, CRLF...)
			return buf
		}
		buf = append(buf, byte(Array))
		buf = strconv.AppendInt(buf, int64(len(v.Elems)), 10)
		buf = append(buf, CRLF...)
		for _, elem := range v.Elems {
			buf = appendValue(buf, elem)
		}
	}
	return buf
}

// ByteLength computes the exact encoded size of v without allocating
// the encoding itself. Serialize uses it to size its buffer, and it
// must always agree with len(Serialize(v)). The deserializer does not
// use it: an array advances by each child's consumed byte count.
func ByteLength(v Value) int {
	switch v.Type {
	case SimpleString, Error:
		return 1 + len(v.Str) + len(CRLF)
	case Integer:
		return 1 + len(strconv.FormatInt(v.Int, 10)) + len(CRLF)
	case Bulk:
		if v.BulkNull {
			return len("$-1") + len(CRLF)
		}
		return 1 + len(strconv.Itoa(len(v.Bulk))) + len(CRLF) + len(v.Bulk) + len(CRLF)
	case Array:
		if v.ArrayNull {
			return len("*-1") + len(CRLF)
		}
		n := 1 + len(strconv.Itoa(len(v.Elems))) + len(CRLF)
		for _, elem := range v.Elems {
			n += ByteLength(elem)
		}
		return n
	default:
		return 0
	}
}

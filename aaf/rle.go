package aaf

// DecodeRLE expands a run-length stream of (count, value) byte pairs into
// dst, writing count copies of value per pair. It returns the number of
// bytes written.
//
// A pair that would expand past the end of dst returns ErrOverflow with
// nothing written beyond capacity. A trailing odd byte terminates the stream
// cleanly. An input that expands to less than len(dst) is not an error; the
// caller decides whether a short result matters.
func DecodeRLE(src, dst []byte) (int, error) {
	out := 0
	for i := 0; i+2 <= len(src); i += 2 {
		count := int(src[i])
		value := src[i+1]

		if out+count > len(dst) {
			return out, ErrOverflow
		}
		for j := 0; j < count; j++ {
			dst[out] = value
			out++
		}
	}
	return out, nil
}

// AppendRLE appends the run-length encoding of src to dst and returns the
// extended slice. Runs longer than 255 are split into multiple pairs.
func AppendRLE(dst, src []byte) []byte {
	for i := 0; i < len(src); {
		value := src[i]
		run := 1
		for i+run < len(src) && src[i+run] == value && run < 255 {
			run++
		}
		dst = append(dst, byte(run), value)
		i += run
	}
	return dst
}

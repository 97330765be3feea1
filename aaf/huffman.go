package aaf

// huffNode is one node of the reconstructed prefix-code trie.
type huffNode struct {
	left, right *huffNode
	leaf        bool
	value       byte
}

// DecodeHuffman decodes a canonical-Huffman block into dst and returns the
// number of bytes produced. src is the whole block: the encoding byte at
// src[0] is skipped, src[1:3] hold the dictionary length (little-endian,
// unlike the code bytes inside the dictionary, which are big-endian), the
// serialized dictionary follows, then the bit-packed payload.
//
// Dictionary layout: one padding-bit count byte, then (symbol, codeLength,
// ceil(codeLength/8) code bytes) per entry. The payload is read most
// significant bit first; the final padding bits are ignored.
//
// A walk that falls off the trie stops decoding early and returns what was
// produced so far with a nil error: callers detect corruption by comparing
// the returned length against the expected output size. Output past the end
// of dst returns ErrOverflow.
func DecodeHuffman(src, dst []byte) (int, error) {
	if len(src) < 3 {
		return 0, ErrTruncated
	}
	dictLen := int(src[2])<<8 | int(src[1])
	if len(src) < 3+dictLen {
		return 0, ErrTruncated
	}
	dict := src[3 : 3+dictLen]
	payload := src[3+dictLen:]
	if len(payload) == 0 {
		return 0, ErrTruncated
	}
	if dictLen == 0 {
		return 0, nil
	}

	root, err := parseHuffmanDict(dict)
	if err != nil {
		return 0, err
	}

	totalBits := len(payload) * 8
	if padding := int(dict[0]); padding > 0 {
		totalBits -= padding
	}

	out := 0
	node := root
	for bit := 0; bit < totalBits; bit++ {
		mask := byte(1) << (7 - bit%8)
		if payload[bit/8]&mask == 0 {
			node = node.left
		} else {
			node = node.right
		}

		if node == nil {
			logger().Debug("huffman walk left the trie", "bit", bit, "decoded", out)
			break
		}
		if node.leaf {
			if out == len(dst) {
				return out, ErrOverflow
			}
			dst[out] = node.value
			out++
			node = root
		}
	}
	return out, nil
}

// parseHuffmanDict rebuilds the prefix-code trie from its serialized form.
// dict[0] is the payload padding count; entries follow.
func parseHuffmanDict(dict []byte) (*huffNode, error) {
	root := &huffNode{}
	pos := 1
	for pos < len(dict) {
		if pos+2 > len(dict) {
			return nil, ErrTruncated
		}
		value := dict[pos]
		codeLen := int(dict[pos+1])
		pos += 2

		codeBytes := (codeLen + 7) / 8
		if pos+codeBytes > len(dict) {
			return nil, ErrTruncated
		}
		var code uint64
		for i := 0; i < codeBytes; i++ {
			code = code<<8 | uint64(dict[pos+i])
		}
		pos += codeBytes

		node := root
		for bit := codeLen - 1; bit >= 0; bit-- {
			if code>>uint(bit)&1 == 0 {
				if node.left == nil {
					node.left = &huffNode{}
				}
				node = node.left
			} else {
				if node.right == nil {
					node.right = &huffNode{}
				}
				node = node.right
			}
		}
		node.leaf = true
		node.value = value
	}
	return root, nil
}

package aaf

// JPEGDecoder is the capability consumed by the 24-bit block path: decoding
// a baseline JPEG blob straight to RGB565 pixels.
//
// Decode writes row-major RGB565 into dst and returns the image dimensions.
// With swap set, each pixel's two bytes are exchanged for big-endian
// framebuffers. Implementations must fail rather than write past len(dst).
//
// The jpegdec subpackage provides the default implementation.
type JPEGDecoder interface {
	Decode(data []byte, dst []byte, swap bool) (width, height int, err error)
}

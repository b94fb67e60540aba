package rihap

import "github.com/klauspost/compress/zstd"

// A nil writer/reader configures the codecs for the stateless EncodeAll and
// DecodeAll calls only.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// CompressZStandard appends the Zstd-compressed form of src to dst.
func CompressZStandard(dst, src []byte) []byte {
	return zstdEncoder.EncodeAll(src, dst)
}

// DecompressZStandard decompresses src, appending to dst. If you have a
// buffer to use, you can pass it to prevent allocation.
func DecompressZStandard(dst, src []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(src, dst[:0])
}

package rihap

import "fmt"

// Compression indicates how (and whether) the genotype block of each indexed
// variant is compressed.
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionZStandard
)

func (c Compression) String() string {
	switch c {
	case CompressionDisabled:
		return "CompressionDisabled"
	case CompressionZStandard:
		return "CompressionZStandard"

	default:
		return "Illegal selection"
	}
}

func (c Compression) compress(block []byte) ([]byte, error) {
	switch c {
	case CompressionDisabled:
		return block, nil
	case CompressionZStandard:
		return CompressZStandard(nil, block), nil
	}
	return nil, fmt.Errorf("compression choice %s is not supported", c)
}

func (c Compression) decompress(dst, block []byte) ([]byte, error) {
	switch c {
	case CompressionDisabled:
		return block, nil
	case CompressionZStandard:
		return DecompressZStandard(dst, block)
	}
	return nil, fmt.Errorf("compression choice %s is not supported", c)
}

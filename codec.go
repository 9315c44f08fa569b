package gsiscript

// StringCodec converts string operands between script bytes and text.
type StringCodec interface {
	// Decode decodes the operand of a string-bearing opcode.
	Decode(op byte, b []byte) (string, error)
	// DecodePlain decodes an uncompressed operand.
	DecodePlain(b []byte) (string, error)
	// Encode converts text to target-encoding bytes without a terminator.
	Encode(s string) ([]byte, error)
}

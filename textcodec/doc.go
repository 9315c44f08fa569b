// Package textcodec converts MES string operands.
//
// Strings come in two forms. Plain operands (MES, PUSHS) are Shift-JIS
// bytes. Compressed operands (MESZ) store common two-byte characters as a
// single byte: any byte that is not a lead byte stands for the pair
// uint16(c - 0x7D62), which covers the kana block.
//
// Rebuilt scripts are written in the target encoding without compression.
package textcodec

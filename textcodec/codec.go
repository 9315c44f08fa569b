package textcodec

import (
	"strings"
	"unicode/utf8"

	gserrors "github.com/wippyai/gsi-script/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Opcodes whose operands are decoded differently.
const (
	opCompressed byte = 0x0A
)

// Codec converts MES string operands to and from text.
//
// Source is the encoding of the shipped scripts, Target the encoding
// rebuilt scripts are written in. The two differ for a translated
// release: Japanese originals are read as Shift-JIS and the rebuilt
// files are written as GBK.
type Codec struct {
	Source encoding.Encoding
	Target encoding.Encoding

	// Strict makes Encode fail on characters the target cannot represent
	// instead of writing '?'.
	Strict bool
}

// New returns the default Shift-JIS to GBK codec.
func New() *Codec {
	return &Codec{
		Source: japanese.ShiftJIS,
		Target: simplifiedchinese.GBK,
	}
}

// Lookup resolves an encoding by configuration name.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shift_jis", "shift-jis", "sjis", "cp932":
		return japanese.ShiftJIS, nil
	case "euc-jp", "eucjp":
		return japanese.EUCJP, nil
	case "gbk", "cp936", "gb2312":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	case "big5", "cp950":
		return traditionalchinese.Big5, nil
	case "euc-kr", "euckr", "cp949":
		return korean.EUCKR, nil
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	default:
		return nil, gserrors.InvalidInput(gserrors.PhaseConfig, "unknown encoding "+name)
	}
}

// Decode decodes a string operand of the given opcode. OpMesZ operands
// are compressed, everything else is plain.
func (c *Codec) Decode(op byte, b []byte) (string, error) {
	if op == opCompressed {
		return c.DecodeCompressed(b)
	}
	return c.DecodePlain(b)
}

// DecodePlain decodes bytes up to the first zero with the source encoding.
func (c *Codec) DecodePlain(b []byte) (string, error) {
	return c.decode(cstring(b))
}

// DecodeCompressed expands a compressed operand and decodes the result
// with the source encoding.
func (c *Codec) DecodeCompressed(b []byte) (string, error) {
	return c.decode(Expand(b))
}

func (c *Codec) decode(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	out, _, err := transform.Bytes(c.Source.NewDecoder(), raw)
	if err != nil {
		return "", gserrors.Encoding(gserrors.PhaseExport, "decode source text", err)
	}
	return string(out), nil
}

// Encode converts s to the target encoding, without a terminator and
// without compression.
func (c *Codec) Encode(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	out, _, err := transform.Bytes(c.Target.NewEncoder(), []byte(s))
	if err == nil {
		return out, nil
	}
	if c.Strict {
		return nil, gserrors.Encoding(gserrors.PhaseRebuild, "text not representable in target encoding", err)
	}
	return c.encodeReplacing(s)
}

// encodeReplacing encodes rune by rune and writes '?' for every rune the
// target rejects.
func (c *Codec) encodeReplacing(s string) ([]byte, error) {
	enc := c.Target.NewEncoder()
	out := make([]byte, 0, len(s))
	var buf [utf8.UTFMax]byte
	for _, r := range s {
		n := utf8.EncodeRune(buf[:], r)
		b, _, err := transform.Bytes(enc, buf[:n])
		enc.Reset()
		if err != nil || r == utf8.RuneError {
			out = append(out, '?')
			continue
		}
		out = append(out, b...)
	}
	return out, nil
}

func cstring(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

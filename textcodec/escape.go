package textcodec

import "strings"

var (
	escaper   = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`)
	unescaper = strings.NewReplacer(`\r`, "\r", `\n`, "\n", `\t`, "\t", `\0`, "\x00", `\x1C`, "\x1C")
)

// Escape makes control characters in a script string visible so that it
// fits on one line of a translation file.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape. It also accepts \0 and \x1C.
// A backslash that starts no known sequence is kept as is.
func Unescape(s string) string {
	return unescaper.Replace(s)
}

package format

import "strings"

var mdV1Escaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"`", "\\`",
)

// EscapeMarkdown escapes the characters Telegram treats as Markdown
// formatting so user-provided text renders verbatim.
func EscapeMarkdown(text string) string {
	return mdV1Escaper.Replace(text)
}

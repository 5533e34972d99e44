package models

import (
	"strings"
	"time"
)

// codePrefixLen is the number of letters kept from the source text
const codePrefixLen = 4

// GenerateCode derives a short display code such as "LOGI-250114" from a
// title or project name: the first four ASCII letters upper-cased, a dash,
// and the date of now as YYMMDD in UTC.
func GenerateCode(text string, now time.Time) string {
	var b strings.Builder
	for _, r := range text {
		if b.Len() == codePrefixLen {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String()) + "-" + now.UTC().Format("060102")
}

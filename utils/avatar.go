package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"unicode/utf8"
)

// avatarColors are the background colors picked for generated avatars.
var avatarColors = []string{
	"2E7D32", "558B2F", "827717", "E65100", "4E342E",
	"00695C", "1565C0", "6A1B9A", "C62828", "37474F",
}

// GenerateAvatarWithInitials returns a DiceBear initials-avatar URL with a
// randomly chosen background color.
func GenerateAvatarWithInitials(initials string) string {
	idx, _ := rand.Int(rand.Reader, big.NewInt(int64(len(avatarColors))))
	color := avatarColors[idx.Int64()]
	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s&backgroundColor=%s",
		url.QueryEscape(initials), color)
}

// GetInitialsFromName extracts up to two initials from a full name. An
// empty name falls back to "U", a single word repeats its first letter.
func GetInitialsFromName(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "U"
	}

	first, _ := utf8.DecodeRuneInString(words[0])
	if len(words) == 1 {
		return strings.ToUpper(string(first) + string(first))
	}

	last, _ := utf8.DecodeRuneInString(words[len(words)-1])
	return strings.ToUpper(string(first) + string(last))
}

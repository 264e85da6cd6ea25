package crypto

import "strings"

// MaskVisibleChars is the fixed prefix length shown in list views.
const MaskVisibleChars = 4

const maskChar = "*"

// MaskAccessKey replaces all but the first visibleChars characters of an
// access key with the mask character. The result always has the same number
// of characters as the input so users can still tell their keys apart; keys
// at or below the visible length are fully masked. Counting runes keeps a
// multibyte key from being split mid-character.
func MaskAccessKey(accessKey string, visibleChars int) string {
	if accessKey == "" {
		return ""
	}

	runes := []rune(accessKey)
	if len(runes) <= visibleChars {
		return strings.Repeat(maskChar, len(runes))
	}

	return string(runes[:visibleChars]) + strings.Repeat(maskChar, len(runes)-visibleChars)
}

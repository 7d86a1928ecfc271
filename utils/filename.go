package utils

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// RepairFilename fixes names garbled by multipart encoders that transmit
// UTF-8 filenames as single-byte-per-character text. Each rune of the
// garbled name holds one raw byte of the original UTF-8 sequence, so
// reassembling those bytes recovers the original name.
//
// Names that already contain runes above 0xFF cannot be garbled in this way
// and are returned unchanged. Reassembled bytes that are not valid UTF-8
// (for example genuinely Latin-1 names) are also left unchanged.
func RepairFilename(name string) string {
	raw := make([]byte, 0, len(name))
	for _, r := range name {
		if r > 0xFF {
			return name
		}
		raw = append(raw, byte(r))
	}

	if !utf8.Valid(raw) {
		return name
	}

	repaired := string(raw)
	if repaired == name {
		return name
	}
	return repaired
}

// DeriveExtension returns the lower-cased suffix after the last dot of the
// file name, or "" when there is none. Dotfiles like ".gitignore" have no
// extension.
func DeriveExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// NewStorageKey derives the object-store key for a file name: a random
// prefix for uniqueness plus the percent-encoded name so arbitrary Unicode
// and reserved characters are safe as a key. The key is stored alongside
// the display name and is the only handle used for later fetch/delete.
func NewStorageKey(name string) string {
	return uuid.New().String() + "/" + url.PathEscape(name)
}

package searchdir

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ItemType represents the kind of entry that satisfies a search
type ItemType string

const (
	// File requires the matched entry to be a regular file
	File ItemType = "file"
	// Directory requires the matched entry to be a directory
	Directory ItemType = "directory"
	// Either accepts a matched entry of any kind
	Either ItemType = "either"
)

// ParseItemType converts a case-insensitive name into an ItemType
func ParseItemType(s string) (ItemType, error) {
	itemType := ItemType(strings.ToLower(strings.TrimSpace(s)))
	if !itemType.Valid() {
		return "", newInvalidItemTypeError(ItemType(s))
	}

	return itemType, nil
}

// Valid reports whether t is one of File, Directory or Either
func (t ItemType) Valid() bool {
	switch t {
	case File, Directory, Either:
		return true
	}
	return false
}

// Accepts reports whether an entry of the given kind satisfies t
func (t ItemType) Accepts(kind EntryKind) bool {
	switch t {
	case File:
		return kind == KindFile
	case Directory:
		return kind == KindDirectory
	case Either:
		return true
	}
	return false
}

func (t ItemType) String() string {
	return string(t)
}

// UnmarshalYAML decodes and validates an item type name
func (t *ItemType) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := ParseItemType(raw)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

// MarshalYAML encodes the item type by name
func (t ItemType) MarshalYAML() (any, error) {
	if !t.Valid() {
		return nil, newInvalidItemTypeError(t)
	}

	return string(t), nil
}

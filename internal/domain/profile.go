package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultProfileName = "User"
	ProfileRole        = "Board Owner"
)

// Profile is the local display identity shown in the header.
type Profile struct {
	Name string
}

func NewProfile(name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, ErrInvalidName
	}
	return Profile{Name: name}, nil
}

// Initial returns the upper-cased first letter of the name.
func (p Profile) Initial() string {
	if p.Name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(p.Name)
	return strings.ToUpper(string(r))
}

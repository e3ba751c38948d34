package models

import "strings"

// Profile is the wizard's user profile. JSON keys match the `userProfile`
// hand-off value written by the browser client.
type Profile struct {
	Name   string `json:"name"`
	CVText string `json:"cvText"`
}

// HasCV reports whether the profile may advance to matching.
func (p Profile) HasCV() bool {
	return strings.TrimSpace(p.CVText) != ""
}

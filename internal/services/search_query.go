package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"digitaltalent/career-wizard/internal/models"
)

// CopyConfirmation is shown after a query lands on the clipboard.
const CopyConfirmation = "Query berhasil disalin!"

var ErrUnknownSite = errors.New("unknown job site")

var entryLevelQualifiers = []string{"Junior", "Associate", "Entry Level"}

type jobSite struct {
	id      string
	label   string
	boolean bool
	// boolean sites: base URL and free-text parameter; others: listing path pattern
	base  string
	param string
	path  string
}

var jobSites = []jobSite{
	{id: "linkedin", label: "LinkedIn", boolean: true, base: "https://www.linkedin.com/jobs/search/", param: "keywords"},
	{id: "indeed", label: "Indeed", boolean: true, base: "https://id.indeed.com/jobs", param: "q"},
	{id: "google", label: "Google Jobs", boolean: true, base: "https://www.google.com/search", param: "q"},
	{id: "glints", label: "Glints", path: "https://glints.com/id/lowongan-kerja/%s"},
	{id: "jobstreet", label: "JobStreet", path: "https://id.jobstreet.com/id/%s-jobs"},
	{id: "kalibrr", label: "Kalibrr", path: "https://www.kalibrr.com/id-ID/job-board/te/%s/1"},
}

// SearchSites returns the known site identifiers in display order.
func SearchSites() []string {
	ids := make([]string, len(jobSites))
	for i, s := range jobSites {
		ids[i] = s.id
	}
	return ids
}

// BooleanQuery quotes the occupation and ANDs it with the entry-level qualifiers.
func BooleanQuery(occupation string) string {
	quoted := make([]string, len(entryLevelQualifiers))
	for i, q := range entryLevelQualifiers {
		quoted[i] = quote(q)
	}
	return quote(occupation) + " AND (" + strings.Join(quoted, " OR ") + ")"
}

// quote wraps s in literal double quotes. Job boards do not read backslash
// escapes, so s is left as is.
func quote(s string) string {
	return `"` + s + `"`
}

// BuildSearchLink builds the deep link for one site. It does no I/O.
func BuildSearchLink(site, occupation string) (models.SearchLink, error) {
	occupation = strings.TrimSpace(occupation)

	for _, s := range jobSites {
		if s.id != strings.ToLower(site) {
			continue
		}

		link := models.SearchLink{Site: s.id, Label: s.label, Boolean: s.boolean}
		if s.boolean {
			link.Query = BooleanQuery(occupation)
			link.URL = s.base + "?" + url.Values{s.param: {link.Query}}.Encode()
		} else {
			link.Query = quote(occupation)
			link.URL = fmt.Sprintf(s.path, url.PathEscape(occupation))
		}
		return link, nil
	}

	return models.SearchLink{}, fmt.Errorf("%w: %s", ErrUnknownSite, site)
}

// BuildSearchLinks builds one link per known site.
func BuildSearchLinks(occupation string) []models.SearchLink {
	links := make([]models.SearchLink, 0, len(jobSites))
	for _, s := range jobSites {
		link, _ := BuildSearchLink(s.id, occupation)
		links = append(links, link)
	}
	return links
}

// CopyResult is what the client writes to the clipboard and the toast it shows.
type CopyResult struct {
	Text    string `json:"text"`
	Message string `json:"message"`
}

// CopyQuery hands back the literal query text with the confirmation message.
func CopyQuery(text string) CopyResult {
	return CopyResult{Text: text, Message: CopyConfirmation}
}

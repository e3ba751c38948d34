package services

import (
	"context"
	"strings"

	"digitaltalent/career-wizard/internal/models"
)

// JobFeedProvider lists job postings for an occupation.
type JobFeedProvider interface {
	Jobs(ctx context.Context, occupation string) ([]models.JobPosting, error)
}

type staticJobFeed struct{}

// NewStaticJobFeed returns illustrative postings derived from the occupation
// name. There is no live job source yet.
func NewStaticJobFeed() JobFeedProvider {
	return staticJobFeed{}
}

// Jobs implements JobFeedProvider.
func (staticJobFeed) Jobs(ctx context.Context, occupation string) ([]models.JobPosting, error) {
	occupation = strings.TrimSpace(occupation)
	if occupation == "" {
		return []models.JobPosting{}, nil
	}

	search := BuildSearchLinks(occupation)
	linkFor := func(i int) string { return search[i%len(search)].URL }

	return []models.JobPosting{
		{Title: "Junior " + occupation, Company: "PT Teknologi Nusantara", Location: "Jakarta", WorkType: "Full-time", Posted: "2 hari lalu", URL: linkFor(0)},
		{Title: occupation + " (Entry Level)", Company: "Startup Digital Indonesia", Location: "Bandung", WorkType: "Hybrid", Posted: "5 hari lalu", URL: linkFor(3)},
		{Title: "Associate " + occupation, Company: "Bank Mandiri Sejahtera", Location: "Surabaya", WorkType: "On-site", Posted: "1 minggu lalu", URL: linkFor(1)},
		{Title: occupation + " Intern", Company: "Kreasi Data Asia", Location: "Remote", WorkType: "Remote", Posted: "3 hari lalu", URL: linkFor(5)},
	}, nil
}

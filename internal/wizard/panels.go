package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/repositories"
	"digitaltalent/career-wizard/internal/services"
)

type PanelsView struct {
	Occupation models.OccupationCandidate `json:"occupation"`
	Courses    []models.CourseListing     `json:"courses"`
	Jobs       []models.JobPosting        `json:"jobs"`
	Search     []models.SearchLink        `json:"search"`
}

// Panels assembles the course and job panels for the selected occupation.
type Panels struct {
	profiles repositories.ProfileRepository
	courses  services.CourseService
	jobs     services.JobFeedProvider
	limit    int
}

func NewPanels(
	profiles repositories.ProfileRepository,
	courses services.CourseService,
	jobs services.JobFeedProvider,
	limit int,
) *Panels {
	return &Panels{profiles: profiles, courses: courses, jobs: jobs, limit: limit}
}

// Load fails with ErrNoSelection until an occupation has been chosen. Course
// and job feed failures leave their panel empty.
func (p *Panels) Load(ctx context.Context, token string) (*PanelsView, error) {
	occ, err := p.selection(ctx, token)
	if err != nil {
		return nil, err
	}

	view := &PanelsView{
		Occupation: *occ,
		Courses:    []models.CourseListing{},
		Jobs:       []models.JobPosting{},
		Search:     services.BuildSearchLinks(occ.Nama),
	}

	courses, err := p.courses.ListCourses(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load courses: %v\n", err)
	} else {
		if p.limit > 0 && len(courses) > p.limit {
			courses = courses[:p.limit]
		}
		view.Courses = courses
	}

	jobs, err := p.jobs.Jobs(ctx, occ.Nama)
	if err != nil {
		log.Printf("⚠️  Failed to load job feed: %v\n", err)
	} else if jobs != nil {
		view.Jobs = jobs
	}

	return view, nil
}

// CopySearch returns the query text for site to put on the clipboard.
func (p *Panels) CopySearch(ctx context.Context, token, site string) (*services.CopyResult, error) {
	occ, err := p.selection(ctx, token)
	if err != nil {
		return nil, err
	}

	link, err := services.BuildSearchLink(site, occ.Nama)
	if err != nil {
		return nil, err
	}

	result := services.CopyQuery(link.Query)
	return &result, nil
}

func (p *Panels) selection(ctx context.Context, token string) (*models.OccupationCandidate, error) {
	occ, err := p.profiles.LoadSelection(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNoSelection
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}
	return occ, nil
}

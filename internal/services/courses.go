package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"digitaltalent/career-wizard/internal/models"
)

// CourseService lists course recommendations.
type CourseService interface {
	ListCourses(ctx context.Context) ([]models.CourseListing, error)
}

type remoteCourses struct {
	backend *backendClient
}

// NewRemoteCourses calls the course service at baseURL/api/courses.
func NewRemoteCourses(baseURL string, client *http.Client) CourseService {
	return &remoteCourses{backend: newBackendClient(baseURL, client)}
}

// ListCourses implements CourseService.
func (c *remoteCourses) ListCourses(ctx context.Context) ([]models.CourseListing, error) {
	status, body, err := c.backend.get(ctx, "/api/courses")
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, &StatusError{Endpoint: "courses", StatusCode: status, Body: truncateBody(body)}
	}

	return decodeCourses(body), nil
}

type fileCourses struct {
	path string
}

// NewFileCourses reads the course export written by the data pipeline.
func NewFileCourses(path string) CourseService {
	return &fileCourses{path: path}
}

// ListCourses implements CourseService.
func (c *fileCourses) ListCourses(ctx context.Context) ([]models.CourseListing, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read courses file: %w", err)
	}

	return decodeCourses(data), nil
}

// decodeCourses accepts only a JSON array; anything else is zero courses.
func decodeCourses(data []byte) []models.CourseListing {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []models.CourseListing{}
	}

	courses := make([]models.CourseListing, 0, len(raw))
	for _, item := range raw {
		var course models.CourseListing
		if err := json.Unmarshal(item, &course); err != nil {
			continue
		}
		courses = append(courses, course.WithDefaults())
	}

	return courses
}

package dto

import "github.com/centralms/lms-api/internal/models"

// CourseCreateRequest carries the new-course form payload.
type CourseCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// CourseResponse is the public view of a course.
type CourseResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	TeacherID uint   `json:"teacher_id"`
}

// CourseStatsResponse summarizes a course for the teacher analytics panel.
type CourseStatsResponse struct {
	CourseID         uint  `json:"course_id"`
	EnrolledStudents int64 `json:"enrolled_students"`
	Assignments      int64 `json:"assignments"`
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:        model.ID,
		Name:      model.Name,
		TeacherID: model.TeacherID,
	}
}

// NewCourseResponseSlice converts course models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}

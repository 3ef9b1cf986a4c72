package dto

// CourseProgressResponse is the completion percentage for one enrolled
// course. Percent is 0 when the course has no assignments.
type CourseProgressResponse struct {
	CourseID   uint    `json:"course_id"`
	CourseName string  `json:"course_name"`
	Percent    float64 `json:"percent"`
}

// StudentPerformanceResponse summarizes one enrolled student's activity
// within a course for the owning teacher.
type StudentPerformanceResponse struct {
	StudentID            uint     `json:"student_id"`
	Username             string   `json:"username"`
	AssignmentsSubmitted int      `json:"assignments_submitted"`
	AssignmentTitles     []string `json:"assignment_titles"`
	ExamsAttempted       int      `json:"exams_attempted"`
	ExamTitles           []string `json:"exam_titles"`
}

// StudentDashboardResponse aggregates a student's headline metrics.
type StudentDashboardResponse struct {
	CoursesEnrolled      int64                    `json:"courses_enrolled"`
	AssignmentsSubmitted int64                    `json:"assignments_submitted"`
	ExamsAttempted       int64                    `json:"exams_attempted"`
	Points               int                      `json:"points"`
	Progress             []CourseProgressResponse `json:"progress"`
}

// LeaderboardEntryResponse is one ranked leaderboard row.
type LeaderboardEntryResponse struct {
	Rank      int    `json:"rank"`
	StudentID uint   `json:"student_id"`
	Username  string `json:"username"`
	Points    int    `json:"points"`
}

package models

import "time"

// Point awards per submission event.
const (
	AssignmentSubmissionAward = 10
	ExamSubmissionAward       = 20
)

// PointsAccount holds a student's accumulated gamification points. One row
// per student, created lazily on first award and only ever incremented.
type PointsAccount struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex" json:"student_id"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Student   User      `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
}

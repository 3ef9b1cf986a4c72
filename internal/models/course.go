package models

import "time"

// Course is a unit of teaching owned by a single teacher.
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	TeacherID uint      `gorm:"not null;index" json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Teacher   User      `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
}

// Enrollment grants a student access to a course. The composite unique
// index enforces at most one enrollment per (student, course) pair at the
// schema level rather than by read-then-write checks.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_enrollment_pair" json:"student_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_pair" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
	Student   User      `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
	Course    Course    `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
}

package models

import "time"

// Assignment is a graded task belonging to exactly one course.
type Assignment struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CourseID    uint         `gorm:"not null;index" json:"course_id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Material    Material     `gorm:"embedded;embeddedPrefix:material_" json:"material"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Course      Course       `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
	Submissions []Submission `json:"-"`
}

// Exam is an assessed test belonging to exactly one course.
type Exam struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CourseID    uint             `gorm:"not null;index" json:"course_id"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Material    Material         `gorm:"embedded;embeddedPrefix:material_" json:"material"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Course      Course           `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
	Submissions []ExamSubmission `json:"-"`
}

// Note is reference material shared with a course. Notes are never graded.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Material  Material  `gorm:"embedded;embeddedPrefix:material_" json:"material"`
	CreatedAt time.Time `json:"created_at"`
	Course    Course    `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
}

package models

import "time"

// Submission records a student's answer to an assignment. The composite
// unique index keeps at most one live submission per (student, assignment)
// pair; resubmission overwrites the row.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_submission_pair" json:"student_id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_submission_pair" json:"assignment_id"`
	Answer       string     `gorm:"type:text" json:"answer"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submitted_at"`
	Grade        *int       `json:"grade"`
	Feedback     string     `gorm:"type:text" json:"feedback"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Student      User       `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
	Assignment   Assignment `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
}

// IsGraded reports whether a grade has been recorded.
func (s Submission) IsGraded() bool {
	return s.Grade != nil
}

// ExamSubmission records a student's answer to an exam, with the same
// at-most-one-per-pair rule as assignment submissions.
type ExamSubmission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_exam_submission_pair" json:"student_id"`
	ExamID      uint      `gorm:"not null;uniqueIndex:idx_exam_submission_pair" json:"exam_id"`
	Answer      string    `gorm:"type:text" json:"answer"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
	Grade       *int      `json:"grade"`
	Feedback    string    `gorm:"type:text" json:"feedback"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Student     User      `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
	Exam        Exam      `gorm:"constraint:OnUpdate:CASCADE" json:"-"`
}

// IsGraded reports whether a grade has been recorded.
func (s ExamSubmission) IsGraded() bool {
	return s.Grade != nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/centralms/lms-api/internal/models"
)

// SubmissionRepository defines data operations for assignment submissions.
type SubmissionRepository interface {
	// Submit upserts the submission for its (student, assignment) pair and
	// credits award points to the student, all in one transaction.
	Submit(ctx context.Context, submission *models.Submission, award int) error
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByStudentAndAssignment(ctx context.Context, studentID, assignmentID uint) (models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
	ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error)
	ListByStudentAndCourse(ctx context.Context, studentID, courseID uint) ([]models.Submission, error)
	CountByStudent(ctx context.Context, studentID uint) (int64, error)
	CountByStudentAndCourse(ctx context.Context, studentID, courseID uint) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Submit(ctx context.Context, submission *models.Submission, award int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Submission
		err := tx.Where("student_id = ?", submission.StudentID).
			Where("assignment_id = ?", submission.AssignmentID).
			First(&existing).Error

		switch {
		case err == nil:
			// Resubmission: the new answer replaces the old one and any
			// grade attached to the previous content is cleared.
			existing.Answer = submission.Answer
			existing.SubmittedAt = submission.SubmittedAt
			existing.Grade = nil
			existing.Feedback = ""
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*submission = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(submission).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return creditPoints(tx, submission.StudentID, award)
	})
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Assignment").
		First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByStudentAndAssignment(ctx context.Context, studentID, assignmentID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("assignment_id = ?", assignmentID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListByStudentAndCourse(ctx context.Context, studentID, courseID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Assignment").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("submissions.student_id = ?", studentID).
		Where("assignments.course_id = ?", courseID).
		Order("submissions.submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("student_id = ?", studentID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *submissionRepository) CountByStudentAndCourse(ctx context.Context, studentID, courseID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("submissions.student_id = ?", studentID).
		Where("assignments.course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// creditPoints lazily creates the points row on first award, then only ever
// increments it. Shared by both submission repositories so the award commits
// with the submission write.
func creditPoints(tx *gorm.DB, studentID uint, award int) error {
	if award <= 0 {
		return nil
	}

	var account models.PointsAccount
	err := tx.Where("student_id = ?", studentID).First(&account).Error
	switch {
	case err == nil:
		account.Points += award
		return tx.Save(&account).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		account = models.PointsAccount{StudentID: studentID, Points: award}
		return tx.Create(&account).Error
	default:
		return err
	}
}

// ExamSubmissionRepository defines data operations for exam submissions.
type ExamSubmissionRepository interface {
	Submit(ctx context.Context, submission *models.ExamSubmission, award int) error
	GetByID(ctx context.Context, id uint) (models.ExamSubmission, error)
	Update(ctx context.Context, submission *models.ExamSubmission) error
	ListByExam(ctx context.Context, examID uint) ([]models.ExamSubmission, error)
	ListByStudentAndCourse(ctx context.Context, studentID, courseID uint) ([]models.ExamSubmission, error)
	CountByStudent(ctx context.Context, studentID uint) (int64, error)
}

type examSubmissionRepository struct {
	db *gorm.DB
}

// NewExamSubmissionRepository instantiates the repository.
func NewExamSubmissionRepository(db *gorm.DB) ExamSubmissionRepository {
	return &examSubmissionRepository{db: db}
}

func (r *examSubmissionRepository) Submit(ctx context.Context, submission *models.ExamSubmission, award int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ExamSubmission
		err := tx.Where("student_id = ?", submission.StudentID).
			Where("exam_id = ?", submission.ExamID).
			First(&existing).Error

		switch {
		case err == nil:
			existing.Answer = submission.Answer
			existing.SubmittedAt = submission.SubmittedAt
			existing.Grade = nil
			existing.Feedback = ""
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*submission = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(submission).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return creditPoints(tx, submission.StudentID, award)
	})
}

func (r *examSubmissionRepository) GetByID(ctx context.Context, id uint) (models.ExamSubmission, error) {
	var submission models.ExamSubmission
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Exam").
		First(&submission, id).Error; err != nil {
		return models.ExamSubmission{}, err
	}

	return submission, nil
}

func (r *examSubmissionRepository) Update(ctx context.Context, submission *models.ExamSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *examSubmissionRepository) ListByExam(ctx context.Context, examID uint) ([]models.ExamSubmission, error) {
	var submissions []models.ExamSubmission
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("exam_id = ?", examID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *examSubmissionRepository) ListByStudentAndCourse(ctx context.Context, studentID, courseID uint) ([]models.ExamSubmission, error) {
	var submissions []models.ExamSubmission
	if err := r.db.WithContext(ctx).Model(&models.ExamSubmission{}).
		Preload("Exam").
		Joins("JOIN exams ON exams.id = exam_submissions.exam_id").
		Where("exam_submissions.student_id = ?", studentID).
		Where("exams.course_id = ?", courseID).
		Order("exam_submissions.submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *examSubmissionRepository) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ExamSubmission{}).
		Where("student_id = ?", studentID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

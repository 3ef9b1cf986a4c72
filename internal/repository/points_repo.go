package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/centralms/lms-api/internal/models"
)

// LeaderboardEntry is one ranked row of the points leaderboard.
type LeaderboardEntry struct {
	StudentID uint   `json:"student_id"`
	Username  string `json:"username"`
	Points    int    `json:"points"`
}

// PointsRepository defines data operations for student points.
type PointsRepository interface {
	GetByStudent(ctx context.Context, studentID uint) (models.PointsAccount, error)
	Increment(ctx context.Context, studentID uint, award int) error
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}

type pointsRepository struct {
	db *gorm.DB
}

// NewPointsRepository instantiates the repository.
func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &pointsRepository{db: db}
}

func (r *pointsRepository) GetByStudent(ctx context.Context, studentID uint) (models.PointsAccount, error) {
	var account models.PointsAccount
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&account).Error; err != nil {
		return models.PointsAccount{}, err
	}

	return account, nil
}

func (r *pointsRepository) Increment(ctx context.Context, studentID uint, award int) error {
	if award <= 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return creditPoints(tx, studentID, award)
	})
}

// Leaderboard ranks every student account, including those without a points
// row yet, which rank with zero points.
func (r *pointsRepository) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("users.id AS student_id, users.username, COALESCE(points_accounts.points, 0) AS points").
		Joins("LEFT JOIN points_accounts ON points_accounts.student_id = users.id").
		Where("users.role = ?", models.RoleStudent).
		Order("points DESC, users.username ASC").
		Scan(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

// PointsOrZero resolves a student's balance, mapping a missing row to 0.
func PointsOrZero(ctx context.Context, repo PointsRepository, studentID uint) (int, error) {
	account, err := repo.GetByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return account.Points, nil
}

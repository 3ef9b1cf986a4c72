package models

import "time"

// Role distinguishes the two account types. It is fixed at signup.
type Role string

const (
	// RoleStudent accounts enroll in courses and submit coursework.
	RoleStudent Role = "Student"
	// RoleTeacher accounts create courses and grade submissions.
	RoleTeacher Role = "Teacher"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User represents a student or teacher account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      Role      `gorm:"size:16;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTeacher reports whether the account holds the teacher role.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

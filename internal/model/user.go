package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
)

func (r UserRole) Valid() bool {
	return r == Student || r == Teacher
}

// swagger:model User
type User struct {
	BaseModel
	Username       string           `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email          string           `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password       string           `gorm:"size:128;not null" json:"-"`
	Role           UserRole         `gorm:"size:20;not null;default:'student'" json:"role"`
	Bio            string           `gorm:"type:text" json:"bio"`
	Qualifications string           `gorm:"type:text" json:"qualifications"`
	Units          []Unit           `gorm:"foreignKey:TeacherID" json:"-"`
	Profile        *ProfileSettings `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsTeacher() bool {
	return u.Role == Teacher
}

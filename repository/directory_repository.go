package repository

import (
	"gorm.io/gorm"

	"github.com/otabek-dev/tutor_center/models"
)

// TeacherRepository and StudentRepository are the read-mostly directory
// lookups the lifecycle services need. The generic base covers them fully.

type TeacherRepository interface {
	Base[models.Teacher]
}

type StudentRepository interface {
	Base[models.Student]
}

func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return NewGormBase[models.Teacher](db)
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return NewGormBase[models.Student](db)
}

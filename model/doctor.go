package model

// Doctor is created through signup and never updated afterwards.
// @Description Doctor information
type Doctor struct {
	Record     `bson:",inline"`
	Name       string `json:"name" gorm:"column:name" bson:"name" example:"Jane Smith"`
	Specialty  string `json:"specialty" gorm:"column:specialty" bson:"specialty" example:"Cardiology"`
	Email      string `json:"email" gorm:"column:email;type:varchar(191);uniqueIndex" bson:"email" example:"jane@clinic.test"`
	Phone      string `json:"phone" gorm:"column:phone;type:varchar(64);uniqueIndex" bson:"phone" example:"081234567890"`
	Experience int    `json:"experience" gorm:"column:experience" bson:"experience" example:"12"`
}

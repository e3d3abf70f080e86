package model

// Patient is created through signup and immutable afterwards.
// @Description Patient information
type Patient struct {
	Record         `bson:",inline"`
	Name           string   `json:"name" gorm:"column:name" bson:"name" example:"John Doe"`
	Age            int      `json:"age" gorm:"column:age" bson:"age" example:"30"`
	Email          string   `json:"email" gorm:"column:email;type:varchar(191);uniqueIndex" bson:"email" example:"john@example.com"`
	Phone          string   `json:"phone" gorm:"column:phone;type:varchar(64);uniqueIndex" bson:"phone" example:"081234567890"`
	SurgeryHistory string   `json:"surgeryHistory" gorm:"column:surgery_history;type:text" bson:"surgeryHistory" example:"Appendectomy 2020"`
	IllnessHistory []string `json:"illnessHistory" gorm:"column:illness_history;serializer:json" bson:"illnessHistory" example:"Diabetes,Hypertension"`
	ProfileImage   string   `json:"profileImage" gorm:"column:profile_image" bson:"profileImage" example:"/uploads/1700000000000-1a2b3c4d-me.png"`
}

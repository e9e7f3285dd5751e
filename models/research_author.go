package models

import "time"

// ResearchAuthor is one listed author of a research. AuthorOrder is unique
// per research; exactly one author should carry IsCorresponding.
type ResearchAuthor struct {
	AuthorID        int        `gorm:"primaryKey;column:author_id" json:"author_id"`
	ResearchID      int        `gorm:"column:research_id;uniqueIndex:uq_research_author_order" json:"research_id"`
	FirstName       string     `gorm:"column:first_name" json:"first_name"`
	LastName        string     `gorm:"column:last_name" json:"last_name"`
	NameEn          *string    `gorm:"column:name_en" json:"name_en,omitempty"`
	Email           string     `gorm:"column:email" json:"email"`
	Institution     *string    `gorm:"column:institution" json:"institution,omitempty"`
	Degree          *string    `gorm:"column:degree" json:"degree,omitempty"`
	ORCID           *string    `gorm:"column:orcid" json:"orcid,omitempty"`
	AuthorOrder     int        `gorm:"column:author_order;uniqueIndex:uq_research_author_order" json:"author_order"`
	IsCorresponding bool       `gorm:"column:is_corresponding" json:"is_corresponding"`
	UserID          *int       `gorm:"column:user_id" json:"user_id,omitempty"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ResearchAuthor) TableName() string {
	return "research_authors"
}

package models

import (
	"errors"
	"posts/db"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

// now is replaced in tests
var now = time.Now

// stamp returns the current time at the precision MySQL keeps (datetime(3)),
// so the record we answer with equals the one read back later
func stamp() time.Time {
	return now().Truncate(time.Millisecond)
}

type Post struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PostList returns all posts, newest first
func PostList() ([]Post, error) {
	posts := []Post{}
	err := db.Instance.Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// PostCreate inserts a new post. Both timestamps get the same value
func PostCreate(title, content string) (p Post, err error) {
	t := stamp()
	p = Post{
		Title:     title,
		Content:   content,
		CreatedAt: t,
		UpdatedAt: t,
	}
	return p, db.Instance.Create(&p).Error
}

// PostUpdate overwrites title and content of an existing post
func PostUpdate(id, title, content string) (p Post, err error) {
	if err = db.Instance.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = ErrPostNotFound
		}
		return Post{}, err
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = stamp()
	result := db.Instance.Model(&p).Updates(map[string]interface{}{
		"title":      p.Title,
		"content":    p.Content,
		"updated_at": p.UpdatedAt,
	})
	if result.Error != nil {
		return Post{}, result.Error
	}
	// Deleted since First
	if result.RowsAffected == 0 {
		return Post{}, ErrPostNotFound
	}
	return p, nil
}

func PostDelete(id string) error {
	result := db.Instance.Delete(&Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

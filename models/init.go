package models

import (
	"posts/db"
)

func Init() {
	if err := db.Instance.AutoMigrate(&Post{}); err != nil {
		panic(err)
	}
}

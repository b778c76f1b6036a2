package models

import (
	"time"
)

type Admin struct {
	ID             string    `json:"id" bson:"id"`
	Username       string    `json:"username" bson:"username"`
	HashedPassword string    `json:"-" bson:"hashed_password"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

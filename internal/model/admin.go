package model

import "time"

// Admin is a user of the scheduling admin panel.
type Admin struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         RoleName  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest is the payload of the login form.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=100"`
	Password string `json:"password" form:"password" binding:"required,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token       string       `json:"token"`
	Username    string       `json:"username"`
	Role        RoleName     `json:"role"`
	Permissions []Permission `json:"permissions"`
	Navigate    Route        `json:"navigate"`
}

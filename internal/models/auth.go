package models

// LoginRequest is the credential payload for the login endpoint
type LoginRequest struct {
	Account  string `json:"account" yaml:"account"`
	Password string `json:"password" yaml:"password"`
}

// UserInfo is the profile record returned by the auth endpoints
type UserInfo struct {
	ID          int64  `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"display_name"`
	AvatarURL   string `json:"avatarUrl" yaml:"avatar_url"`
}

// LoginResult is the envelope payload of a successful login
type LoginResult struct {
	Token string   `json:"token" yaml:"token"`
	User  UserInfo `json:"user" yaml:"user"`
}

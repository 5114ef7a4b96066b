package types

// User is the identity a client attaches to a write.
type User struct {
	UID   string `json:"uid" form:"uid"`
	Email string `json:"email" form:"email"`
}

// Identity is what the identity provider hands back after a sign in.
type Identity struct {
	UID       string  `json:"uid"`
	Email     *string `json:"email"`
	Token     string  `json:"token,omitempty"`
	ExpiresIn int     `json:"expiresIn,omitempty"`
	Anonymous bool    `json:"anonymous"`
}

package domain

import "time"

// Account is the identity unit. Created once at registration; afterwards only
// the phone number is mutated.
type Account struct {
	AccountID string     `json:"id" dynamodbav:"account_id"`
	Name      string     `json:"name" dynamodbav:"name"`
	Surname   string     `json:"surname" dynamodbav:"surname"`
	Phone     *string    `json:"phone" dynamodbav:"phone"`
	CreatedAt time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time  `json:"updated" dynamodbav:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
}

// Credential is one-to-one with Account. Role is the only field the trust
// state machine mutates after creation; the row is never deleted.
type Credential struct {
	AccountID    string    `json:"account_id" dynamodbav:"account_id"`
	Email        string    `json:"email" dynamodbav:"email"` // stored lowercased
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         Role      `json:"role" dynamodbav:"role"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=3"`
	Surname  string  `json:"surname" validate:"required,min=3"`
	Email    string  `json:"email" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Phone    *string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type UpdatePhoneRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// Profile is the public projection of a credential returned by login.
type Profile struct {
	AccountID string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

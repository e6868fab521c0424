package models

import "github.com/golang-jwt/jwt/v5"

// TriggerClaims are the JWT claims accepted on the manual run-trigger
// endpoint.
type TriggerClaims struct {
	Subject string `json:"sub_name,omitempty"`
	jwt.RegisteredClaims
}

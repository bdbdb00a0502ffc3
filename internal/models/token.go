package models

import (
	"time"
)

// IssuedToken is a signed bearer token as returned to the client
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

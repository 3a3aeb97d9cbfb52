package userstore

import "fmt"

type (
	DuplicateEmail struct {
		Email string
	}
)

func (d DuplicateEmail) Error() string {
	return fmt.Sprintf("email %v is already registered", d.Email)
}

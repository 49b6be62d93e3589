// Package testing provides test utilities for veil.
package testing

import (
	"github.com/zoobzio/veil"
)

// NewWalker returns a walker with the default configuration.
func NewWalker() *veil.Walker {
	return veil.New(veil.DefaultConfig())
}

// Book is a record fixture whose Email and PhoneNumber fields match the
// default sensitive set.
type Book struct {
	Title       string `json:"title"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Publisher   string `json:"publisher"`
}

// SampleBook returns a populated Book fixture.
func SampleBook() Book {
	return Book{
		Title:       "Clean Code",
		Email:       "robert@example.com",
		PhoneNumber: "0712345678",
		Publisher:   "Prentice Hall",
	}
}

// Account is a fixture demonstrating per-field mask directives.
type Account struct {
	Owner      string `json:"owner"`
	CardNumber string `json:"cardNumber" mask:"last4"`
	PIN        string `json:"pin" mask:"full,char=#"`
}

// SampleAccount returns a populated Account fixture.
func SampleAccount() Account {
	return Account{
		Owner:      "Ann Smith",
		CardNumber: "4111111111111234",
		PIN:        "9876",
	}
}

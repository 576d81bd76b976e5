package utils

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^1[3-9][0-9]{9}$`)

// ValidateAccount validates a login account, which may be an email address
// or a mobile phone number
func ValidateAccount(account string) error {
	if account == "" {
		return fmt.Errorf("account is required")
	}

	if phonePattern.MatchString(account) {
		return nil
	}
	if _, err := mail.ParseAddress(account); err == nil {
		return nil
	}

	return fmt.Errorf("account must be an email address or phone number")
}

// ValidatePassword validates a password
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	return nil
}

// ValidateRequired validates that a string is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateRating validates a sampling report rating
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return nil
}

// ValidateURL validates a URL
func ValidateURL(url string) error {
	if err := ValidateRequired(url, "URL"); err != nil {
		return err
	}

	urlPattern := regexp.MustCompile(`^https?://[a-zA-Z0-9\-\.]+(?::[0-9]+)?(?:/.*)?$`)
	if !urlPattern.MatchString(url) {
		return fmt.Errorf("invalid URL format")
	}

	return nil
}

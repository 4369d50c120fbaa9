// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxEmailLen = 254
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordBytes = 72
	MaxTitleLen      = 300
	MaxContentLen    = 50000
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("Invalid email format")
	}
	return nil
}

// ValidatePassword only rejects what cannot be hashed faithfully.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("Password is required")
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("Password too long (max %d bytes)", MaxPasswordBytes)
	}
	return nil
}

// ValidatePost checks the title and content of a post body.
func ValidatePost(title, content string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("Title is required")
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("Title too long (max %d characters)", MaxTitleLen)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("Content is required")
	}
	if len(content) > MaxContentLen {
		return fmt.Errorf("Content too long (max %d characters)", MaxContentLen)
	}
	return nil
}

package validator

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vedran77/taskly/internal/domain"
)

const (
	MinNameLength     = 2
	MaxNameLength     = 50
	MinPasswordLength = 6
	MaxPasswordLength = 72
	MaxBioLength      = 200
)

var (
	emailRegex    = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	idRegex       = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	upperRegex    = regexp.MustCompile(`[A-Z]`)
	lowerRegex    = regexp.MustCompile(`[a-z]`)
	digitRegex    = regexp.MustCompile(`\d`)
	symbolRegex   = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	spaceRunRegex = regexp.MustCompile(`\s+`)
)

// ValidationError carries the first failing rule as a client-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return invalid("Password must be at least 6 characters long")
	}
	if len(password) > MaxPasswordLength {
		return invalid("Password cannot exceed 72 bytes")
	}

	if !upperRegex.MatchString(password) ||
		!lowerRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!symbolRegex.MatchString(password) {
		return invalid("Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}

	return nil
}

func ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < MinNameLength {
		return invalid("Name must be at least 2 characters long")
	}
	if n > MaxNameLength {
		return invalid("Name cannot exceed 50 characters")
	}
	return nil
}

func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return invalid("Bio cannot exceed 200 characters")
	}
	return nil
}

// ValidateAvatar accepts an empty string (clears the avatar) or an absolute
// http(s) URL.
func ValidateAvatar(avatar string) error {
	if avatar == "" {
		return nil
	}
	u, err := url.Parse(avatar)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("Avatar must be a valid http(s) URL")
	}
	return nil
}

// IsValidID reports whether id is in the store's native encoding.
func IsValidID(id string) bool {
	return idRegex.MatchString(id)
}

func IsValidStatus(status string) bool {
	switch status {
	case domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted:
		return true
	}
	return false
}

func IsValidPriority(priority string) bool {
	switch priority {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
		return true
	}
	return false
}

var sortKeys = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"dueDate":   true,
	"title":     true,
	"priority":  true,
	"status":    true,
}

func IsValidSortKey(key string) bool {
	return sortKeys[key]
}

// Sanitize trims s and collapses internal whitespace runs to one space.
func Sanitize(s string) string {
	return spaceRunRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrInvalidEmail = errors.New("please enter a valid email address")
	ErrInvalidPhone = errors.New("please enter a valid phone number (at least 10 digits)")
	ErrNameRequired = errors.New("name is required")
)

// MinPhoneDigits is the shortest phone number accepted once separators are stripped.
const MinPhoneDigits = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like local@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone reports whether phone carries at least MinPhoneDigits digits.
func ValidPhone(phone string) bool {
	return len(Digits(phone)) >= MinPhoneDigits
}

// Digits strips everything but 0-9.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Contact is the set of fields an employee confirms each year.
type Contact struct {
	Name                   string
	PhoneNumber            string
	Email                  string
	PhysicalMailingAddress string
}

// Validate checks the contact form. The first failing rule is returned.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if !ValidEmail(c.Email) {
		return ErrInvalidEmail
	}
	if !ValidPhone(c.PhoneNumber) {
		return ErrInvalidPhone
	}
	return nil
}

// NormalizeName collapses whitespace and title-cases each word:
// "  jane   DOE " becomes "Jane Doe".
func NormalizeName(name string) string {
	// A Caser keeps state, so each call gets its own.
	caser := cases.Title(language.English)
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = caser.String(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// ProperName reports whether name already follows the "Firstname Lastname"
// convention: at least two words, single spaces, Title Case.
func ProperName(name string) bool {
	if name != strings.TrimSpace(name) || strings.Contains(name, "  ") {
		return false
	}
	words := strings.Split(name, " ")
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		for i, r := range w {
			if i == 0 && !unicode.IsUpper(r) {
				return false
			}
			if i > 0 && !unicode.IsLower(r) {
				return false
			}
		}
		if w == "" {
			return false
		}
	}
	return true
}

package auth

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tendant/simple-orgs/internal/config"
	"github.com/tendant/simple-orgs/pkg/domain"
)

// PasswordPolicy defines the rules an admin password must satisfy.
type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

// NewPasswordPolicy creates a PasswordPolicy from config.
func NewPasswordPolicy(cfg config.PasswordPolicyConfig) *PasswordPolicy {
	return &PasswordPolicy{
		MinLength:        cfg.MinLength,
		RequireUppercase: cfg.RequireUppercase,
		RequireLowercase: cfg.RequireLowercase,
		RequireNumber:    cfg.RequireNumber,
		RequireSpecial:   cfg.RequireSpecial,
	}
}

type characterRule struct {
	enabled bool
	what    string
	match   func(rune) bool
}

func (p *PasswordPolicy) characterRules() []characterRule {
	return []characterRule{
		{p.RequireUppercase, "one uppercase letter", unicode.IsUpper},
		{p.RequireLowercase, "one lowercase letter", unicode.IsLower},
		{p.RequireNumber, "one number", unicode.IsDigit},
		{p.RequireSpecial, "one special character", isSpecial},
	}
}

// ValidatePassword returns an error wrapping domain.ErrWeakPassword that
// names the first rule password breaks. Length counts characters.
func (p *PasswordPolicy) ValidatePassword(password string) error {
	if p.MinLength > 0 && utf8.RuneCountInString(password) < p.MinLength {
		return domain.Errorf(domain.ErrWeakPassword, "password must be at least %d characters long", p.MinLength)
	}
	for _, rule := range p.characterRules() {
		if rule.enabled && strings.IndexFunc(password, rule.match) < 0 {
			return domain.Errorf(domain.ErrWeakPassword, "password must contain at least %s", rule.what)
		}
	}
	return nil
}

// Requirements describes the policy for logs and error hints.
func (p *PasswordPolicy) Requirements() string {
	var parts []string
	if p.MinLength > 0 {
		parts = append(parts, "at least "+strconv.Itoa(p.MinLength)+" characters")
	}
	for _, rule := range p.characterRules() {
		if rule.enabled {
			parts = append(parts, rule.what)
		}
	}
	if len(parts) == 0 {
		return "no password requirements"
	}
	return "password must contain " + strings.Join(parts, ", ")
}

func isSpecial(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}

// Package contact models contact-form submissions and renders them as
// notification text for the chat relay.
package contact

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"audit-quote/internal/errors"
)

// Field limits. Telegram caps messages at 4096 characters.
const (
	MaxNameLength    = 200
	MaxCompanyLength = 200
	MaxMessageLength = 3000
)

// ProjectType is the optional selector value on the contact form.
type ProjectType string

const (
	ProjectToken  ProjectType = "token"
	ProjectNFT    ProjectType = "nft"
	ProjectDeFi   ProjectType = "defi"
	ProjectDAO    ProjectType = "dao"
	ProjectBridge ProjectType = "bridge"
	ProjectLayer2 ProjectType = "layer2"
	ProjectOther  ProjectType = "other"
)

// ProjectTypeOption is a selector entry.
type ProjectTypeOption struct {
	Value ProjectType `json:"value"`
	Label string      `json:"label"`
}

// ProjectTypes lists the selector entries in display order.
func ProjectTypes() []ProjectTypeOption {
	return []ProjectTypeOption{
		{ProjectToken, "Token Contract"},
		{ProjectNFT, "NFT Collection"},
		{ProjectDeFi, "DeFi Protocol"},
		{ProjectDAO, "DAO"},
		{ProjectBridge, "Bridge Protocol"},
		{ProjectLayer2, "Layer 2 Protocol"},
		{ProjectOther, "Other"},
	}
}

// Submission is one contact-form post.
type Submission struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Company     string      `json:"company,omitempty"`
	ProjectType ProjectType `json:"projectType,omitempty"`
	Message     string      `json:"message"`
}

// Normalize trims every field.
func (s Submission) Normalize() Submission {
	return Submission{
		Name:        strings.TrimSpace(s.Name),
		Email:       strings.TrimSpace(s.Email),
		Company:     strings.TrimSpace(s.Company),
		ProjectType: ProjectType(strings.TrimSpace(string(s.ProjectType))),
		Message:     strings.TrimSpace(s.Message),
	}
}

// Validate checks required fields and limits. It expects a normalized submission.
func (s Submission) Validate() error {
	if s.Name == "" || s.Email == "" || s.Message == "" {
		return errors.Input("missing required fields")
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		return errors.Wrap(errors.TypeInput, "invalid email address", err)
	}
	switch {
	case len(s.Name) > MaxNameLength:
		return errors.Inputf("name exceeds %d characters", MaxNameLength)
	case len(s.Company) > MaxCompanyLength:
		return errors.Inputf("company exceeds %d characters", MaxCompanyLength)
	case len(s.Message) > MaxMessageLength:
		return errors.Inputf("message exceeds %d characters", MaxMessageLength)
	}
	return nil
}

// ProjectTypeLabel turns "defi_protocol" into "Defi Protocol" by replacing
// underscores with spaces and capitalising the first letter of every word.
// Empty means "Not specified".
func (s Submission) ProjectTypeLabel() string {
	if s.ProjectType == "" {
		return "Not specified"
	}
	runes := []rune(strings.ReplaceAll(string(s.ProjectType), "_", " "))
	for i, r := range runes {
		if isWordRune(r) && (i == 0 || !isWordRune(runes[i-1])) {
			runes[i] = unicode.ToUpper(r)
		}
	}
	return string(runes)
}

func isWordRune(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Format renders the notification text.
func (s Submission) Format(now time.Time) string {
	var b strings.Builder
	b.WriteString("🔔 New Contact Form Submission\n\n")
	fmt.Fprintf(&b, "👤 Name: %s\n", s.Name)
	fmt.Fprintf(&b, "📧 Email: %s\n", s.Email)
	if s.Company != "" {
		fmt.Fprintf(&b, "🏢 Company: %s\n", s.Company)
	}
	fmt.Fprintf(&b, "📋 Project Type: %s\n\n", s.ProjectTypeLabel())
	fmt.Fprintf(&b, "💬 Message:\n%s\n\n", s.Message)
	b.WriteString("---\n")
	fmt.Fprintf(&b, "Time: %s UTC", now.UTC().Format("1/2/2006, 3:04:05 PM"))
	return b.String()
}

// Package dispatch hands a finished report to the technician's mail client.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultSubject is the subject prefix; the job type is appended.
const DefaultSubject = "Completed Safety Checklist"

// DefaultRecipients are placeholders until dispatch.recipients is configured.
var DefaultRecipients = []string{
	"workshop@example.com",
	"service-manager@example.com",
	"quality@example.com",
}

var validate = validator.New()

// Draft is a mail ready to be handed to a sink.
type Draft struct {
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
	Subject    string   `json:"subject" validate:"required"`
	Body       string   `json:"body" validate:"required"`
}

// NewDraft builds the completion mail for jobType.
func NewDraft(recipients []string, subject, jobType, body string) Draft {
	if subject == "" {
		subject = DefaultSubject
	}
	return Draft{
		Recipients: recipients,
		Subject:    subject + " – " + jobType,
		Body:       body,
	}
}

// Validate checks recipients are mail addresses and subject and body are
// set.
func (d Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate draft: %w", err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid draft: %s", strings.Join(problems, ", "))
}

// MailtoURL encodes the draft as a mailto: link. Subject and body are
// percent-encoded with spaces as %20 so every mail client decodes them the
// same way.
func (d Draft) MailtoURL() string {
	return "mailto:" + strings.Join(d.Recipients, ",") +
		"?subject=" + encodeComponent(d.Subject) +
		"&body=" + encodeComponent(d.Body)
}

// componentUnescape restores the characters encodeURIComponent leaves as-is.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}

// Sink accepts a finished draft.
type Sink interface {
	Dispatch(ctx context.Context, d Draft) error
}

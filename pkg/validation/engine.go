// Package validation checks node configurations against the messaging
// platform's interactive-message constraints at save time. Keystroke-time
// counters are advisory UI feedback; nothing here runs per keystroke.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chatflowhq/chatflow/pkg/models"
	"github.com/chatflowhq/chatflow/pkg/textmetrics"
)

// Violation messages surfaced to the user. Fixed contract text: tests and
// the panel's primary-error banner rely on these exact strings.
const (
	MsgMessageTooLong        = "Message must be 1024 characters or fewer"
	MsgQuestionTooLong       = "Question text must be 1024 characters or fewer"
	MsgFooterTooLong         = "Footer must be 60 characters or fewer"
	MsgHeaderTextTooLong     = "Header text must be 60 characters or fewer"
	MsgListTitleTooLong      = "List title must be 20 characters or fewer"
	MsgMediaTextRequired     = "Text content is required when media type is Text Content."
	MsgMediaTextTooLong      = "Media text must be 20 characters or fewer"
	MsgButtonRequired        = "At least 1 button is required"
	MsgTooManyButtons        = "No more than 3 buttons are allowed"
	MsgSectionRequired       = "At least 1 section is required"
	MsgTooManySections       = "No more than 10 sections are allowed"
	MsgModelRequired         = "An AI model must be selected"
	MsgMaxTokensOutOfRange   = "Max tokens must be between 50 and 4000"
	MsgTemperatureOutOfRange = "Temperature must be between 0 and 1"
)

// Violations is the ordered list of constraint failures for one node
// configuration. Empty means valid. The first entry is what the panel
// surfaces as the primary error; the full list feeds the detail view.
type Violations []string

// OK reports whether the configuration passed every check.
func (v Violations) OK() bool {
	return len(v) == 0
}

// Primary returns the first violation in encounter order, or "".
func (v Violations) Primary() string {
	if len(v) == 0 {
		return ""
	}

	return v[0]
}

// Validate runs the save-time checks for the configuration's kind and
// returns violations in encounter order: message body, footer and header
// fields, media, collection counts, then per-item checks. Kinds without
// hard gating rules return nil; ai gates on its parameter bounds.
func Validate(config models.NodeConfig) Violations {
	switch c := config.(type) {
	case models.InteractiveButtonsConfig:
		return validateInteractiveButtons(c)
	case models.InteractiveListConfig:
		return validateInteractiveList(c)
	case models.InputConfig:
		return validateInput(c)
	case models.AIConfig:
		return validateAI(c)
	case models.MessageConfig, models.KnowledgeBaseConfig, models.APILibraryConfig, models.EngineConfig:
		// The plain message shares the 1024 ceiling as display feedback
		// only; none of these kinds gate saving.
		return nil
	default:
		return nil
	}
}

func validateInteractiveButtons(c models.InteractiveButtonsConfig) Violations {
	var violations Violations

	if textmetrics.PlainLength(c.Message) > models.MaxMessageLength {
		violations = append(violations, MsgMessageTooLong)
	}

	if charLen(c.Footer) > models.MaxFooterLength {
		violations = append(violations, MsgFooterTooLong)
	}

	violations = append(violations, mediaViolations(c.Header)...)

	switch {
	case len(c.Buttons) < models.MinButtons:
		violations = append(violations, MsgButtonRequired)
	case len(c.Buttons) > models.MaxButtons:
		violations = append(violations, MsgTooManyButtons)
	}

	for i, button := range c.Buttons {
		violations = append(violations, buttonViolations(fmt.Sprintf("Button %d", i+1), button)...)
	}

	return violations
}

func validateInteractiveList(c models.InteractiveListConfig) Violations {
	var violations Violations

	if textmetrics.PlainLength(c.Message) > models.MaxMessageLength {
		violations = append(violations, MsgMessageTooLong)
	}

	if charLen(c.HeaderText) > models.MaxHeaderTextLength {
		violations = append(violations, MsgHeaderTextTooLong)
	}

	if charLen(c.ListTitle) > models.MaxListTitleLength {
		violations = append(violations, MsgListTitleTooLong)
	}

	if charLen(c.Footer) > models.MaxFooterLength {
		violations = append(violations, MsgFooterTooLong)
	}

	switch {
	case len(c.Sections) < models.MinSections:
		violations = append(violations, MsgSectionRequired)
	case len(c.Sections) > models.MaxSections:
		violations = append(violations, MsgTooManySections)
	}

	for i, section := range c.Sections {
		label := fmt.Sprintf("Section %d", i+1)

		if strings.TrimSpace(section.Name) == "" {
			violations = append(violations, label+": name is required")
		} else if charLen(section.Name) > models.MaxSectionName {
			violations = append(violations, fmt.Sprintf("%s: name must be %d characters or fewer", label, models.MaxSectionName))
		}

		if len(section.Buttons) > models.MaxSectionButtons {
			violations = append(violations, fmt.Sprintf("%s: no more than %d buttons are allowed", label, models.MaxSectionButtons))
		}

		for j, button := range section.Buttons {
			violations = append(violations, buttonViolations(fmt.Sprintf("%s, button %d", label, j+1), button)...)
		}
	}

	return violations
}

func validateInput(c models.InputConfig) Violations {
	if textmetrics.PlainLength(c.QuestionText) > models.MaxMessageLength {
		return Violations{MsgQuestionTooLong}
	}

	return nil
}

func validateAI(c models.AIConfig) Violations {
	var violations Violations

	if strings.TrimSpace(c.Model) == "" {
		violations = append(violations, MsgModelRequired)
	}

	if c.MaxTokens < models.MinAITokens || c.MaxTokens > models.MaxAITokens {
		violations = append(violations, MsgMaxTokensOutOfRange)
	}

	if c.Temperature < models.MinAITemperature || c.Temperature > models.MaxAITemperature {
		violations = append(violations, MsgTemperatureOutOfRange)
	}

	return violations
}

// charLen counts characters, not bytes; limits are character limits.
func charLen(s string) int {
	return utf8.RuneCountInString(s)
}

func mediaViolations(media *models.MediaRef) Violations {
	if media == nil {
		return nil
	}

	if media.Type == models.MediaTypeText {
		if strings.TrimSpace(media.Text) == "" {
			return Violations{MsgMediaTextRequired}
		}
	}

	if charLen(media.Text) > models.MaxMediaTextLength {
		return Violations{MsgMediaTextTooLong}
	}

	return nil
}

func buttonViolations(label string, button models.Button) Violations {
	var violations Violations

	if strings.TrimSpace(button.Label) == "" {
		violations = append(violations, label+": label is required")
	} else if charLen(button.Label) > models.MaxButtonLabel {
		violations = append(violations, fmt.Sprintf("%s: label must be %d characters or fewer", label, models.MaxButtonLabel))
	}

	violations = append(violations, actionViolations(label, button)...)

	return violations
}

// actionViolations enforces the action-value invariant: a concrete value is
// required, and loosely typed, whenever the action is not connectToNode.
func actionViolations(label string, button models.Button) Violations {
	switch button.ActionType {
	case models.ButtonActionConnectToNode, "":
		return nil
	case models.ButtonActionCallNumber:
		if strings.TrimSpace(button.ActionValue) == "" {
			return Violations{label + ": a phone number is required for Call Number"}
		}
	case models.ButtonActionSendEmail:
		if !strings.Contains(button.ActionValue, "@") {
			return Violations{label + ": a valid email address is required for Send Email"}
		}
	case models.ButtonActionOpenURL:
		if !strings.HasPrefix(button.ActionValue, "http://") && !strings.HasPrefix(button.ActionValue, "https://") {
			return Violations{label + ": a valid URL is required for Open URL"}
		}
	}

	return nil
}

package ui

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// IconOption returns a survey option that sets the question icon to "-"
// This provides a consistent UI style across all interactive prompts.
func IconOption() survey.AskOpt {
	return survey.WithIcons(func(icons *survey.IconSet) {
		icons.Question.Text = "-"
	})
}

// Confirm asks a yes/no question with survey. It is used for destructive
// steps where the default has to stay "No".
func Confirm(format string, a ...any) (bool, error) {
	var ok bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf(format, a...),
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok, IconOption()); err != nil {
		return false, err
	}
	return ok, nil
}

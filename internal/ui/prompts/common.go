package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
)

// PromptDescription prompts for a description text
// Can be used for transactions, accounts, or any other entity
func PromptDescription(message string, required bool) (string, error) {
	var desc string

	input := huh.NewInput().
		Title(message).
		Value(&desc)

	if required {
		input.Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("description is required")
			}
			return nil
		})
	}

	err := input.Run()
	return strings.TrimSpace(desc), err
}

// PromptConfirm prompts for yes/no confirmation
func PromptConfirm(message string, defaultValue bool) (bool, error) {
	confirm := defaultValue

	err := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		Run()

	return confirm, err
}

// PromptDate prompts for a YYYY-MM-DD date. An empty answer keeps def.
func PromptDate(message string, def time.Time) (time.Time, error) {
	var date string

	err := huh.NewInput().
		Title(message).
		Description("Press Enter for " + def.Format(time.DateOnly)).
		Placeholder(def.Format(time.DateOnly)).
		Value(&date).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			_, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.Local)
			return err
		}).
		Run()
	if err != nil {
		return time.Time{}, err
	}

	if strings.TrimSpace(date) == "" {
		return def, nil
	}
	return time.ParseInLocation(time.DateOnly, strings.TrimSpace(date), time.Local)
}

// PromptInput prompts for a generic text input with optional default and validator
func PromptInput(message string, defaultValue string, validator func(string) error) (string, error) {
	var inputVal string

	input := huh.NewInput().
		Title(message).
		Value(&inputVal)

	if defaultValue != "" {
		input.Placeholder(defaultValue)
	}

	if validator != nil {
		input.Validate(func(s string) error {
			if s == "" && defaultValue != "" {
				return nil
			}
			return validator(s)
		})
	}

	if err := input.Run(); err != nil {
		return "", err
	}

	if inputVal == "" {
		return defaultValue, nil
	}
	return strings.TrimSpace(inputVal), nil
}

// PromptSelect prompts for one of options. Options are matched to
// defaultOption exactly or by their leading word.
func PromptSelect(message string, options []string, defaultOption string) (string, error) {
	selected := ""
	for _, o := range options {
		if o == defaultOption || strings.HasPrefix(o, defaultOption+" ") {
			selected = o
			break
		}
	}

	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o, o))
	}

	err := huh.NewSelect[string]().
		Title(message).
		Options(opts...).
		Value(&selected).
		Height(min(len(options)+2, 15)).
		Run()
	return selected, err
}

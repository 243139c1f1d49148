package company

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

// Validation messages, worded the way the registration form shows them.
const (
	MessageRequired = "Este campo es obligatorio."
	MessageEmail    = "Introduzca una dirección de correo electrónico válida."
	MessageChoice   = "Seleccione una opción válida."
	messageMin      = "Asegúrese de que este valor tenga al menos %d caracteres."
	messageMax      = "Asegúrese de que este valor tenga como máximo %d caracteres."
	messageExact    = "Asegúrese de que este valor tenga %d caracteres."
	messageFile     = "Archivo no permitido. Extensiones válidas: %s."
)

// Errors groups validation messages by field name.
type Errors map[string][]string

// Add records msg against field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Empty reports whether no messages were recorded.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names in lexical order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for name := range e {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Error implements error.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, name := range e.Fields() {
		parts = append(parts, name+": "+strings.Join(e[name], " "))
	}
	return "company: invalid fields: " + strings.Join(parts, "; ")
}

// Validate checks values against every constraint. File fields are checked
// by filename; an empty value skips them.
func (c Constraints) Validate(values map[string]string) Errors {
	errs := Errors{}
	for _, name := range c.Fields() {
		rule := c[name]
		value := strings.TrimSpace(values[name])

		if value == "" {
			if rule.Required {
				errs.Add(name, MessageRequired)
			}
			continue
		}

		if rule.File != nil {
			if !rule.File.Accepts(value) {
				errs.Add(name, fmt.Sprintf(messageFile, strings.Join(rule.File.Extensions, ", ")))
			}
			continue
		}

		if msg := checkLength(rule, value); msg != "" {
			errs.Add(name, msg)
		}
		if rule.Format == "email" && !validEmail(value) {
			errs.Add(name, MessageEmail)
		}
		if len(rule.Enum) > 0 && !contains(rule.Enum, value) {
			errs.Add(name, MessageChoice)
		}
	}
	if errs.Empty() {
		return nil
	}
	return errs
}

// ValidateCompany checks a company record.
func (c Constraints) ValidateCompany(company Company) Errors {
	return c.Validate(company.Values())
}

func checkLength(rule Constraint, value string) string {
	length := utf8.RuneCountInString(value)
	if rule.MaxLength != nil && rule.MinLength == *rule.MaxLength && length != rule.MinLength {
		if rule.LengthMessage != "" {
			return rule.LengthMessage
		}
		return fmt.Sprintf(messageExact, rule.MinLength)
	}
	if rule.MinLength > 0 && length < rule.MinLength {
		return fmt.Sprintf(messageMin, rule.MinLength)
	}
	if rule.MaxLength != nil && length > *rule.MaxLength {
		return fmt.Sprintf(messageMax, *rule.MaxLength)
	}
	return ""
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

package usecase

import (
	"errors"
	"fmt"
	"strings"

	"translation_desk/internal/domain/entities"

	"github.com/go-playground/validator/v10"
)

// FileInput is a raw file handed over by the transport layer.
type FileInput struct {
	Name     string
	MimeType string
	Content  []byte
}

// SubmitQuoteInput carries the wizard fields of a new quote request.
type SubmitQuoteInput struct {
	Name                string               `validate:"required,max=200"`
	Email               string               `validate:"required,email"`
	Phone               string               `validate:"max=50"`
	Company             string               `validate:"max=200"`
	Service             entities.ServiceType `validate:"required,service"`
	SourceLanguage      string               `validate:"required"`
	TargetLanguages     []string
	Urgency             entities.Urgency `validate:"required,urgency"`
	Certification       bool
	Glossary            bool
	WordCount           *int   `validate:"omitempty,min=0"`
	PageCount           *int   `validate:"omitempty,min=0"`
	Industry            string `validate:"max=200"`
	SpecialInstructions string `validate:"max=2000"`
	Files               []FileInput
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("service", func(fl validator.FieldLevel) bool {
		return entities.ServiceType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("urgency", func(fl validator.FieldLevel) bool {
		return entities.Urgency(fl.Field().String()).IsValid()
	})
	return v
}

func (in *SubmitQuoteInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.Service = entities.ServiceType(strings.ToLower(strings.TrimSpace(string(in.Service))))
	in.SourceLanguage = strings.TrimSpace(in.SourceLanguage)
	in.Urgency = entities.Urgency(strings.ToLower(strings.TrimSpace(string(in.Urgency))))
	in.Industry = strings.TrimSpace(in.Industry)
	in.SpecialInstructions = strings.TrimSpace(in.SpecialInstructions)
}

// validateSubmit normalizes in and returns an ErrValidation describing every failed field.
func validateSubmit(v *validator.Validate, in *SubmitQuoteInput) error {
	in.trim()

	if err := v.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validationErrorf("%s", formatValidationErrors(verrs))
		}
		return validationErrorf("%v", err)
	}

	langs, err := NormalizeTargetLanguages(in.SourceLanguage, in.TargetLanguages)
	if err != nil {
		return err
	}
	in.TargetLanguages = langs

	if in.WordCount == nil && in.PageCount == nil && len(in.Files) == 0 {
		return validationErrorf("one of word count, page count or documents is required")
	}
	for i, f := range in.Files {
		if strings.TrimSpace(f.Name) == "" {
			return validationErrorf("file #%d has no name", i+1)
		}
	}
	return nil
}

// NormalizeTargetLanguages trims and de-duplicates langs keeping first-seen order.
// The result must be non-empty and must not contain source.
func NormalizeTargetLanguages(source string, langs []string) ([]string, error) {
	source = strings.TrimSpace(source)
	seen := make(map[string]bool, len(langs))
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		key := strings.ToLower(l)
		if key == strings.ToLower(source) {
			return nil, validationErrorf("target languages must not include the source language %q", source)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil, validationErrorf("at least one target language is required")
	}
	return out, nil
}

func formatValidationErrors(verrs validator.ValidationErrors) string {
	var b strings.Builder
	for i, fe := range verrs {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "'%s': %s", fe.Field(), validationMessage(fe))
	}
	return b.String()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "should be at most " + fe.Param() + " long"
	case "min":
		return "should be greater or equal than " + fe.Param()
	case "service":
		return fmt.Sprintf("unknown service %q", fe.Value())
	case "urgency":
		return fmt.Sprintf("unknown urgency %q", fe.Value())
	}
	return "is invalid"
}

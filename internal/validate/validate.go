// Package validate holds the form contracts checked before anything is sent
// to the task service: the allowed-character predicate and the task, login
// and register schemas.
package validate

import (
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"taskmate/internal/service"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://taskmate.local/schemas/"

var allowedRe = regexp.MustCompile(`^[a-zA-Z0-9\s]*$`)

// IsAllowed reports whether every character of s is an ASCII letter, a digit
// or whitespace. The empty string is allowed; required-ness is a schema rule.
func IsAllowed(s string) bool {
	return allowedRe.MatchString(s)
}

// FieldErrors maps a form field to its message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Fields returns the failing field names, sorted.
func (e FieldErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TaskForm is the trimmed title/description pair submitted for a task.
type TaskForm struct {
	Title       string
	Description string
}

// Task trims and validates a new task's fields.
// On failure the returned error is FieldErrors.
func Task(title, description string) (TaskForm, error) {
	form := TaskForm{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}
	err := check("task.json", map[string]any{
		"title":       form.Title,
		"description": form.Description,
	}, nil)
	return form, err
}

// TaskPatch trims and validates the title/description present in p.
// Absent fields are not checked.
func TaskPatch(p service.TaskPatch) (service.TaskPatch, error) {
	doc := map[string]any{}
	if p.Title != nil {
		p.Title = service.String(strings.TrimSpace(*p.Title))
		doc["title"] = *p.Title
	}
	if p.Description != nil {
		p.Description = service.String(strings.TrimSpace(*p.Description))
		doc["description"] = *p.Description
	}
	return p, check("task_patch.json", doc, nil)
}

// Login validates login credentials.
func Login(email, password string) error {
	return check("login.json", map[string]any{
		"email":    strings.TrimSpace(email),
		"password": password,
	}, nil)
}

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates the sign-up form, including that both passwords match.
func Register(f RegisterForm) error {
	return check("register.json", map[string]any{
		"name":            strings.TrimSpace(f.Name),
		"email":           strings.TrimSpace(f.Email),
		"password":        f.Password,
		"confirmPassword": f.ConfirmPassword,
	}, func(errs FieldErrors) {
		if _, ok := errs["confirmPassword"]; !ok && f.Password != f.ConfirmPassword {
			errs["confirmPassword"] = "passwords do not match"
		}
	})
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

func schemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		entries, err := schemaFS.ReadDir("schemas")
		if err != nil {
			compileErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		for _, e := range entries {
			data, err := schemaFS.ReadFile("schemas/" + e.Name())
			if err != nil {
				compileErr = err
				return
			}
			if err := compiler.AddResource(schemaBaseURL+e.Name(), bytes.NewReader(data)); err != nil {
				compileErr = fmt.Errorf("schema %s: %w", e.Name(), err)
				return
			}
		}
		compiled = make(map[string]*jsonschema.Schema, len(entries))
		for _, e := range entries {
			sch, err := compiler.Compile(schemaBaseURL + e.Name())
			if err != nil {
				compileErr = fmt.Errorf("schema %s: %w", e.Name(), err)
				return
			}
			compiled[e.Name()] = sch
		}
	})
	return compiled, compileErr
}

func check(name string, doc map[string]any, extra func(FieldErrors)) error {
	all, err := schemas()
	if err != nil {
		return err
	}
	sch, ok := all[name]
	if !ok {
		return fmt.Errorf("unknown schema: %s", name)
	}

	errs := FieldErrors{}
	ranks := map[string]int{}
	if verr := sch.Validate(doc); verr != nil {
		ve, ok := verr.(*jsonschema.ValidationError)
		if !ok {
			return verr
		}
		collect(errs, ranks, doc, ve)
	}
	if extra != nil {
		extra(errs)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// keywordRank orders competing failures on one field: the first issue wins.
var keywordRank = map[string]int{
	"required":  0,
	"minLength": 1,
	"maxLength": 2,
	"format":    3,
	"pattern":   4,
}

func collect(errs FieldErrors, ranks map[string]int, doc map[string]any, ve *jsonschema.ValidationError) {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			collect(errs, ranks, doc, c)
		}
		return
	}

	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	keyword := ve.KeywordLocation[strings.LastIndex(ve.KeywordLocation, "/")+1:]
	if field == "" {
		// whole-object failure such as a missing property; not reachable for
		// forms built above, which always carry every field
		errs["form"] = ve.Message
		return
	}

	rank, known := keywordRank[keyword]
	if !known {
		rank = len(keywordRank)
	}
	if prev, seen := ranks[field]; seen && prev <= rank {
		return
	}
	ranks[field] = rank

	value, _ := doc[field].(string)
	errs[field] = message(field, keyword, value, ve.Message)
}

var fieldLabels = map[string]string{
	"title":           "title",
	"description":     "description",
	"email":           "email",
	"password":        "password",
	"name":            "name",
	"confirmPassword": "password confirmation",
}

func message(field, keyword, value, fallback string) string {
	label := fieldLabels[field]
	if label == "" {
		label = field
	}
	switch keyword {
	case "minLength":
		if value == "" {
			return label + " is required"
		}
		switch field {
		case "password":
			return "password must be at least 6 characters"
		case "name":
			return "name must be at least 3 characters"
		}
		return label + " is too short"
	case "maxLength":
		return label + " is too long"
	case "pattern":
		return label + " may only contain letters, digits and spaces"
	case "format":
		return label + " must be a valid email address"
	}
	return fallback
}

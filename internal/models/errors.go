package models

import "fmt"

// ValidationError - отсутствует или некорректно обязательное поле входного запроса
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("validation failed: field %q is required", e.Field)
	}
	return fmt.Sprintf("validation failed: field %q %s", e.Field, e.Reason)
}

// NotFoundError - инцидент с указанным идентификатором не существует
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("incident with id %s not found", e.ID)
}

// TransitionError - недопустимый переход статуса инцидента
type TransitionError struct {
	ID   string
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("incident %s: invalid status transition %s -> %s", e.ID, e.From, e.To)
}

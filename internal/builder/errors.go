package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mpataki/agentbuilder/internal/models"
)

var (
	ErrBusy           = errors.New("still working on the previous reply")
	ErrNothingPending = errors.New("no pending input")
	ErrEmptyInput     = errors.New("input is empty")
	ErrNotDone        = errors.New("agent setup is not finished")
)

// UnexpectedInputError is returned for an input the current step does not take.
type UnexpectedInputError struct {
	Step  Step
	Input Input
}

func (e *UnexpectedInputError) Error() string {
	return fmt.Sprintf("input %T is not accepted at step %s", e.Input, e.Step)
}

// SelectionError is the required-selection-missing validation error.
type SelectionError struct {
	Type    models.AgentType
	Missing Requirement
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s needs at least one %s", e.Type.Label(), e.Missing.Noun())
}

// LinkedWorkflowError lists workflows already linked to other agents. The
// caller confirms and resubmits with Reassign set.
type LinkedWorkflowError struct {
	Workflows []models.Workflow
}

func (e *LinkedWorkflowError) Error() string {
	parts := make([]string, len(e.Workflows))
	for i, wf := range e.Workflows {
		parts[i] = fmt.Sprintf("%s (linked to %s)", wf.Name, wf.LinkedAgent)
	}
	return "workflows already linked to another agent: " + strings.Join(parts, ", ")
}

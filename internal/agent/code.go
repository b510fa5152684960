package agent

import (
	"context"
	"fmt"
	"strings"
)

const codeSageSystem = "You are the Developer of an AI app-building team. " +
	"You generate functional code based on technical designs and UI/UX mockups."

type codeSage struct {
	responder Responder
	logger    Logger
	language  string
}

// NewCodeSage creates the Developer. It generates module code and fixes bugs
// reported by QA.
func NewCodeSage(responder Responder, logger Logger, opts ...Option) *Agent {
	c := &codeSage{responder: responder, logger: logger, language: "Python"}
	return New("Code Sage", "Developer", c.handle, logger, opts...)
}

func (c *codeSage) handle(ctx context.Context, task map[string]any) (map[string]any, error) {
	moduleName := taskString(task, "module_name")
	if moduleName == "" {
		moduleName = "unknown_module"
	}

	var prompt, fallbackCode, fallbackTests string
	if bugReport := describeBugReport(task["bug_report"]); bugReport != "" {
		prompt = fmt.Sprintf(`Fix the following bug in the %s code for the '%s' module.
Bug Report: %s

Provide a summary of the code changes made and any updated unit tests.
Example:
Generated Code Summary: Fixed code for user_authentication, implemented input sanitization.
Unit Tests Summary: Updated unit tests for user_authentication to cover the bug fix.`, c.language, moduleName, bugReport)
		fallbackCode = fmt.Sprintf("Fixed %s code for %s based on bug report.", c.language, moduleName)
		fallbackTests = fmt.Sprintf("Updated unit tests for %s to cover bug fix.", moduleName)
	} else {
		prompt = fmt.Sprintf(`Generate %s code for the '%s' module based on the following requirements and design details:
Requirements: %s
Design Details: %s

Provide a summary of the generated code and unit tests.
Example:
Generated Code Summary: Generated code for user_authentication, including registration, login, and session management.
Unit Tests Summary: Generated unit tests for user_authentication (coverage ~80%%).`,
			c.language, moduleName, taskString(task, "requirements"), taskString(task, "design_details"))
		fallbackCode = fmt.Sprintf("Generated %s code for %s.", c.language, moduleName)
		fallbackTests = fmt.Sprintf("Generated unit tests for %s.", moduleName)
	}

	response, err := c.responder.Respond(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	codeSummary, testsSummary := fallbackCode, fallbackTests
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := lineValue(line, "Generated Code Summary:"); ok {
			codeSummary = v
		} else if v, ok := lineValue(line, "Unit Tests Summary:"); ok {
			testsSummary = v
		}
	}

	return map[string]any{
		"module_name":            moduleName,
		"status":                 "ready_for_qa",
		"generated_code_summary": codeSummary,
		"unit_tests_summary":     testsSummary,
	}, nil
}

// describeBugReport flattens whatever shape the workflow handed over: a bug
// list, a single bug map, or already-rendered text. Empty and "N/A" mean no
// bug report.
func describeBugReport(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || trimmed == "N/A" || trimmed == "[]" {
			return ""
		}
		return trimmed
	default:
		return fmt.Sprintf("%v", v)
	}
}

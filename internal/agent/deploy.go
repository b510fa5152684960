package agent

import (
	"context"
	"fmt"
	"strings"
)

const deploymentMasterSystem = "You are the DevOps engineer of an AI app-building team. " +
	"You manage infrastructure, deploy the application, and set up monitoring."

type deploymentMaster struct {
	responder Responder
	logger    Logger
}

// NewDeploymentMaster creates the DevOps engineer. Its result echoes the
// retry attempt so the workflow can decide between another retry and
// escalation.
func NewDeploymentMaster(responder Responder, logger Logger, opts ...Option) *Agent {
	d := &deploymentMaster{responder: responder, logger: logger}
	return New("Deployment Master", "DevOps Engineer", d.handle, logger, opts...)
}

func (d *deploymentMaster) handle(ctx context.Context, task map[string]any) (map[string]any, error) {
	packageRef := taskString(task, "app_package_ref")
	if packageRef == "" {
		packageRef = "final_app_build.zip"
	}
	target := taskString(task, "deployment_target")
	if target == "" {
		target = "cloud"
	}
	environment := taskString(task, "environment")
	if environment == "" {
		environment = "prod"
	}
	retryAttempt := taskInt(task, "retry_attempt")

	prompt := fmt.Sprintf(`Deploy the application package '%s' to '%s' in the '%s' environment.
This is deployment attempt: %d.

Determine the deployment status (success/failure) and if successful, provide the app URL and monitoring dashboard URL.
If deployment fails, state 'failure', 'N/A' for URLs, and a reason.

Example (Success):
Deployment Status: success
App URL: https://your-app-live-on-cloud.com/12345678
Monitoring Dashboard URL: https://monitor.example.com/dashboard-abcdef

Example (Failure):
Deployment Status: failure
App URL: N/A
Monitoring Dashboard URL: N/A
Reason: Simulated network issue during deployment.`, packageRef, target, environment, retryAttempt)

	response, err := d.responder.Respond(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("deploy application: %w", err)
	}

	status := "failure"
	appURL := "N/A"
	monitoringURL := "N/A"
	reason := ""
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := lineValue(line, "Deployment Status:"); ok {
			status = v
		} else if v, ok := lineValue(line, "App URL:"); ok {
			appURL = v
		} else if v, ok := lineValue(line, "Monitoring Dashboard URL:"); ok {
			monitoringURL = v
		} else if v, ok := lineValue(line, "Reason:"); ok {
			reason = v
		}
	}
	if status != "success" && status != "failure" {
		d.logf("unrecognized deployment status %q from model, defaulting to failure", status)
		status = "failure"
	}
	if status == "failure" && reason == "" {
		reason = "deployment failed for an unspecified reason"
	}

	return map[string]any{
		"status":                   "completed",
		"deployment_status":        status,
		"app_url":                  appURL,
		"monitoring_dashboard_url": monitoringURL,
		"retry_attempt":            retryAttempt,
		"error_details":            reason,
	}, nil
}

func (d *deploymentMaster) logf(format string, args ...any) {
	if d.logger == nil {
		return
	}
	d.logger.Printf("[Deployment Master] "+format, args...)
}

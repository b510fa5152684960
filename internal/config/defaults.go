package config

const defaultProjectConfigYAML = `# genesis project configuration
version: 1

# Workflow rule document, relative to .genesis/ unless absolute.
workflow: workflows/appbuilder.yaml

# Model router settings, relative to .genesis/ unless absolute.
models: models.yaml

run:
  # Upper bound on dispatch cycles before genesis gives up on a run.
  max_steps: 100
`

// DefaultModelSettingsYAML seeds .genesis/models.yaml. The router falls back
// to these values when the file is missing or malformed.
const DefaultModelSettingsYAML = `# Model routing for genesis agents.
#
# provider picks the default backend for every agent; per-agent overrides may
# change provider, model, host, and port. API keys come from environment
# variables (OPENROUTER_API_KEY, OPENAI_API_KEY), never from this file.
provider: lm_studio

# Backend for agents without their own override.
default:
  provider: lm_studio
  model: Mistral-Nemo-Instruct-12B
  port: 1234

agents: {}
# Example overrides:
# agents:
#   "Code Sage":
#     provider: lm_studio
#     model: qwen/qwen2.5-coder-14b
#     host: 10.0.0.31
#     port: 1234
#   "Quality Guardian":
#     provider: openrouter
#     model: deepseek-ai/deepseek-v3-0324
`

// DefaultWorkflowYAML is the rule document seeded into new projects. It
// drives the full app-builder pipeline: concept, architecture, design,
// development, QA with bounded retries, and deployment.
//
// Handlers are tried in document order and the first match wins, so
// narrower rules (for example a specific retry_attempt) must come before
// their catch-all.
const DefaultWorkflowYAML = `events:
  start:
    - conditions: {}
      actions:
        - type: update_state
          path: status
          value: "In Progress"
        - type: update_state
          path: current_phase
          value: "Conceptualization"
        - type: update_state
          path: app_idea
          value: "{{event.user_idea}}"
        - type: delegate_task
          agent: "Dream Weaver"
          task: define_concept
          content:
            user_idea: "{{event.user_idea}}"

  agent_result:
    # Concept ready: record it and ask the human to approve.
    - conditions:
        event_data:
          content.task_name: define_concept
          content.status: completed
      actions:
        - type: update_state
          path: concept_brief
          value:
            purpose: "{{event.content.concept_brief.purpose}}"
            target_users: "{{event.content.concept_brief.target_users}}"
            features: "{{event.content.concept_brief.features}}"
            monetization_strategy: "{{event.content.concept_brief.monetization_strategy}}"
        - type: update_state
          path: current_phase
          value: "Concept Review"
        - type: send_human_message
          message_type: QUESTION
          content: "Here is the concept for your app: {{event.content.concept_brief.purpose}}. Planned features: {{event.content.concept_brief.features}}. Shall I design the architecture?"
          options: ["approve", "refine", "cancel"]

    # Architecture ready: record it and move straight into UI/UX design.
    - conditions:
        event_data:
          content.task_name: design_architecture
          content.status: completed
      actions:
        - type: update_state
          path: technical_blueprint
          value:
            architecture_type: "{{event.content.technical_blueprint.architecture_type}}"
            modules: "{{event.content.technical_blueprint.modules}}"
            api_specs_summary: "{{event.content.technical_blueprint.api_specs_summary}}"
        - type: update_state
          path: tech_stack_proposal
          value:
            backend: "{{event.content.tech_stack_proposal.backend}}"
            frontend: "{{event.content.tech_stack_proposal.frontend}}"
            cloud_provider: "{{event.content.tech_stack_proposal.cloud_provider}}"
            ci_cd_tool: "{{event.content.tech_stack_proposal.ci_cd_tool}}"
        - type: update_state
          path: current_phase
          value: "Design"
        - type: delegate_task
          agent: "Aesthetic Artist"
          task: design_ui_ux
          content:
            concept_purpose: "{{state.concept_brief.purpose}}"
            concept_features: "{{state.concept_brief.features}}"

    # Design ready: ask the human to sign off on the prototype.
    - conditions:
        event_data:
          content.task_name: design_ui_ux
          content.status: completed
      actions:
        - type: update_state
          path: ui_ux_prototype_url
          value: "{{event.content.ui_ux_prototype_url}}"
        - type: update_state
          path: design_guidelines
          value: "{{event.content.design_guidelines}}"
        - type: update_state
          path: current_phase
          value: "Design Review"
        - type: send_human_message
          message_type: QUESTION
          content: "The interactive prototype is ready at {{event.content.ui_ux_prototype_url}}. Approve the design, describe a change, or cancel."
          options: ["approve", "change", "cancel"]

    # Revised design keeps the review loop open.
    - conditions:
        event_data:
          content.task_name: change_ui
          content.status: completed
      actions:
        - type: update_state
          path: ui_ux_prototype_url
          value: "{{event.content.ui_ux_prototype_url}}"
        - type: update_state
          path: current_phase
          value: "Design Review"
        - type: send_human_message
          message_type: QUESTION
          content: "The updated prototype is at {{event.content.ui_ux_prototype_url}}. Approve the design, describe another change, or cancel."
          options: ["approve", "change", "cancel"]

    # Code generated: hand the module to QA under the same context.
    - conditions:
        event_data:
          content.task_name: generate_code
          content.status: ready_for_qa
      actions:
        - type: update_state
          path: code_modules_status.core_app
          value: ready_for_qa
        - type: update_state
          path: current_phase
          value: "Quality Assurance"
        - type: delegate_task
          agent: "Quality Guardian"
          task: run_tests
          use_event_context_id: true
          content:
            module_name: "{{event.content.module_name}}"
            code_ref: "{{event.content.generated_code_summary}}"
            test_scope: integration

    # QA passed: mark the module done, and once every module has completed,
    # ask where to deploy.
    - conditions:
        event_data:
          content.task_name: run_tests
          content.test_report.status: passed
      actions:
        - type: update_state
          path: code_modules_status.core_app
          value: completed
        - type: update_state
          path: test_results.core_app
          value: passed
        - type: update_state
          path: current_phase
          value: "Deployment"
        - type: send_human_message
          message_type: QUESTION
          content: "All modules passed QA. Where should I deploy your app?"
          options: ["cloud", "on_prem"]

    # QA failed on the first or second attempt: send the bugs back to the
    # developer under the same context so the retry counter keeps counting.
    - conditions:
        event_data:
          content.task_name: run_tests
          content.test_report.status: failed_with_bugs
          content.retry_attempt: 0
      actions:
        - type: update_state
          path: code_modules_status.core_app
          value: qa_failed
        - type: delegate_task
          agent: "Code Sage"
          task: generate_code
          use_event_context_id: true
          content:
            module_name: "{{event.content.module_name}}"
            bug_report: "{{event.content.test_report.bugs_found}}"
            design_details: "{{state.design_guidelines}}"
    - conditions:
        event_data:
          content.task_name: run_tests
          content.test_report.status: failed_with_bugs
          content.retry_attempt: 1
      actions:
        - type: update_state
          path: code_modules_status.core_app
          value: qa_failed
        - type: delegate_task
          agent: "Code Sage"
          task: generate_code
          use_event_context_id: true
          content:
            module_name: "{{event.content.module_name}}"
            bug_report: "{{event.content.test_report.bugs_found}}"
            design_details: "{{state.design_guidelines}}"

    # QA retries exhausted: escalate to the human.
    - conditions:
        event_data:
          content.task_name: run_tests
          content.test_report.status: failed_with_bugs
      actions:
        - type: update_state
          path: code_modules_status.core_app
          value: escalated
        - type: update_state
          path: escalated_issues.core_app
          value: "QA kept failing for module {{event.content.module_name}}: {{event.content.test_report.bugs_found}}"
        - type: update_state
          path: current_phase
          value: "QA Escalated"
        - type: send_human_message
          message_type: CRITICAL_ISSUE
          content: "QA failed repeatedly for {{event.content.module_name}}. Outstanding bugs: {{event.content.test_report.bugs_found}}. Bypass QA and continue, or cancel the project?"
          options: ["bypass", "cancel"]

    # Deployment succeeded.
    - conditions:
        event_data:
          content.task_name: deploy_application
          content.deployment_status: success
      actions:
        - type: update_state
          path: final_app_url
          value: "{{event.content.app_url}}"
        - type: update_state
          path: status
          value: "App Live!"
        - type: update_state
          path: current_phase
          value: "Live"
        - type: send_human_message
          message_type: INFO
          content: "Your app is live at {{event.content.app_url}}. Monitoring dashboard: {{event.content.monitoring_dashboard_url}}."

    # Deployment failed with retries left: try again under the same context.
    - conditions:
        event_data:
          content.task_name: deploy_application
          content.deployment_status: failure
          content.retry_attempt: 0
      actions:
        - type: delegate_task
          agent: "Deployment Master"
          task: deploy_application
          use_event_context_id: true
          content:
            deployment_target: "{{state.selected_deployment_target}}"
            environment: production
            app_package_ref: final_app_build.zip
    - conditions:
        event_data:
          content.task_name: deploy_application
          content.deployment_status: failure
          content.retry_attempt: 1
      actions:
        - type: delegate_task
          agent: "Deployment Master"
          task: deploy_application
          use_event_context_id: true
          content:
            deployment_target: "{{state.selected_deployment_target}}"
            environment: production
            app_package_ref: final_app_build.zip

    # Deployment retries exhausted: escalate to the human.
    - conditions:
        event_data:
          content.task_name: deploy_application
          content.deployment_status: failure
      actions:
        - type: update_state
          path: status
          value: "Deployment Failed (Escalated)"
        - type: update_state
          path: current_phase
          value: "Deployment Escalated"
        - type: send_human_message
          message_type: CRITICAL_ISSUE
          content: "Deployment kept failing: {{event.content.error_details}}. Retry once more, or cancel the project?"
          options: ["retry", "cancel"]

    # QA could not produce a usable report: escalate instead of stalling.
    - conditions:
        event_data:
          content.task_name: run_tests
          content.test_report.status: failed
      actions:
        - type: update_state
          path: code_modules_status.core_app
          value: escalated
        - type: update_state
          path: escalated_issues.core_app
          value: "QA produced no usable report for module {{event.content.module_name}}"
        - type: update_state
          path: current_phase
          value: "QA Escalated"
        - type: send_human_message
          message_type: CRITICAL_ISSUE
          content: "QA could not produce a usable test report for {{event.content.module_name}}. Bypass QA and continue, or cancel the project?"
          options: ["bypass", "cancel"]

    # A crashed agent reports a failed status update; surface it immediately
    # so the run never idles out waiting for a result that will not come.
    - conditions:
        event_data:
          type: status_update
          content.status: failed
      actions:
        - type: update_state
          path: escalated_issues.agent_failure
          value: "{{event.sender}} failed task {{event.content.task_name}}: {{event.content.message}}"
        - type: update_state
          path: current_phase
          value: "Agent Failure"
        - type: send_human_message
          message_type: CRITICAL_ISSUE
          content: "{{event.sender}} hit an error while working on {{event.content.task_name}}: {{event.content.message}}. Cancel the project, or fix the backend and restart."
          options: ["cancel"]

  human_input:
    # Concept approved: architecture comes next.
    - conditions:
        event_data:
          response: approve
        project_state:
          current_phase: "Concept Review"
      actions:
        - type: update_state
          path: current_phase
          value: "Architecture"
        - type: delegate_task
          agent: "Master Builder"
          task: design_architecture
          content:
            concept_purpose: "{{state.concept_brief.purpose}}"
            concept_features: "{{state.concept_brief.features}}"

    # Concept sent back: the next free-form answer is the refinement input.
    - conditions:
        event_data:
          response: refine
        project_state:
          current_phase: "Concept Review"
      actions:
        - type: update_state
          path: current_phase
          value: "Concept Refinement"
        - type: send_human_message
          message_type: QUESTION
          content: "Tell me what to change about the concept."
    - conditions:
        project_state:
          current_phase: "Concept Refinement"
      actions:
        - type: update_state
          path: current_phase
          value: "Conceptualization"
        - type: delegate_task
          agent: "Dream Weaver"
          task: define_concept
          content:
            user_idea: "{{state.app_idea}}"
            refinement_input: "{{event.response}}"

    # Design approved: development starts.
    - conditions:
        event_data:
          response: approve
        project_state:
          current_phase: "Design Review"
      actions:
        - type: update_state
          path: current_phase
          value: "Development"
        - type: update_state
          path: code_modules_status.core_app
          value: coding
        - type: delegate_task
          agent: "Code Sage"
          task: generate_code
          content:
            module_name: core_app
            requirements: "{{state.concept_brief.features}}"
            design_details: "{{state.design_guidelines}}"

    # Design change requested: the next free-form answer describes it.
    - conditions:
        event_data:
          response: change
        project_state:
          current_phase: "Design Review"
      actions:
        - type: update_state
          path: current_phase
          value: "Design Refinement"
        - type: send_human_message
          message_type: QUESTION
          content: "Describe the design change you'd like."
    - conditions:
        project_state:
          current_phase: "Design Refinement"
      actions:
        - type: update_state
          path: current_phase
          value: "Design"
        - type: delegate_task
          agent: "Aesthetic Artist"
          task: change_ui
          content:
            refinement_input: "{{event.response}}"

    # Deployment target chosen. The gate re-checks module completion against
    # the settled state; if anything slipped back, the delegation is skipped.
    - conditions:
        event_data:
          response: cloud
        project_state:
          current_phase: "Deployment"
      actions:
        - type: update_state
          path: selected_deployment_target
          value: cloud
        - type: check_condition
          condition_type: all_modules_completed
        - type: delegate_task
          agent: "Deployment Master"
          task: deploy_application
          content:
            deployment_target: cloud
            environment: production
            app_package_ref: final_app_build.zip
    - conditions:
        event_data:
          response: on_prem
        project_state:
          current_phase: "Deployment"
      actions:
        - type: update_state
          path: selected_deployment_target
          value: on_prem
        - type: check_condition
          condition_type: all_modules_completed
        - type: delegate_task
          agent: "Deployment Master"
          task: deploy_application
          content:
            deployment_target: on_prem
            environment: production
            app_package_ref: final_app_build.zip

    # QA escalation resolved by bypassing the failing module.
    - conditions:
        event_data:
          response: bypass
        project_state:
          current_phase: "QA Escalated"
      actions:
        - type: update_state
          path: code_modules_status.core_app
          value: completed
        - type: update_state
          path: test_results.core_app
          value: bypassed
        - type: update_state
          path: current_phase
          value: "Deployment"
        - type: send_human_message
          message_type: QUESTION
          content: "Understood, QA is bypassed. Where should I deploy your app?"
          options: ["cloud", "on_prem"]

    # Deployment escalation resolved by one more manual retry.
    - conditions:
        event_data:
          response: retry
        project_state:
          current_phase: "Deployment Escalated"
      actions:
        - type: update_state
          path: status
          value: "In Progress"
        - type: update_state
          path: current_phase
          value: "Deployment"
        - type: delegate_task
          agent: "Deployment Master"
          task: deploy_application
          use_event_context_id: true
          content:
            deployment_target: "{{state.selected_deployment_target}}"
            environment: production
            app_package_ref: final_app_build.zip

    # Cancellation is honored from any phase.
    - conditions:
        event_data:
          response: cancel
      actions:
        - type: update_state
          path: status
          value: "Project Cancelled"
        - type: update_state
          path: current_phase
          value: "Ended"
        - type: send_human_message
          message_type: INFO
          content: "The project has been cancelled. Nothing else will run."
`

package agent

import (
	"fmt"
	"strings"

	"promptdeck-backend/internal/models"
)

const systemPrompt = `You are a professional prompt-engineering agent. Your job is to create and refine prompts for the user based on their business context.

Core rules:
1. Before any change, read all business information carefully (global, project, and prompt-level notes).
2. Rules marked as mandatory in the business information must always be followed.
3. Plan before executing: when you receive a request, output a modification plan first and wait for the user to confirm before making changes.
4. When editing an existing prompt, preserve its structure and keep the change minimal.
5. Generated prompts should declare the variable placeholders they need, written as {{variableName}}.
6. Explain the reason behind every change you make.

About referenced material: the user attaches two kinds of references and you must treat them differently.
- Entries under "Referenced prompts" are existing prompts; you may edit them or use them as a starting point.
- Entries under "Referenced knowledge documents" are business reference material; extract the relevant knowledge from them to inform the prompts you write.
- When the user references both a prompt and a document and asks you to rework the prompt based on the document, read the document, understand the business knowledge in it, and rewrite the referenced prompt accordingly.

Response format:
- Always reply to the user in natural language first, explaining what you intend to do and why.
- When you need to output structured data (a plan, a preview, or a diff), explain it in prose and then append a JSON code block at the end of the message.
- The JSON must be wrapped in ` + "```json and ```" + ` markers, otherwise the system cannot recognize it.
- If the request is unclear, ask a clarifying question in plain text and do not output JSON.

Structured output formats:
- Modification plan (explain in prose first, then append):
` + "```json" + `
{"type":"plan","keyPoints":[{"index":1,"description":"what this step does","action":"create|modify","targetPromptId":"id of the existing prompt","targetPromptTitle":"title"}]}
` + "```" + `
- New prompt (explain your approach first, then append):
` + "```json" + `
{"type":"preview","title":"title","content":"full prompt content","description":"summary","tags":["tag"],"variables":[{"name":"variableName","description":"what it holds"}]}
` + "```" + `
- Edit to an existing prompt (explain what changed first, then append):
` + "```json" + `
{"type":"diff","promptId":"id of the original prompt","title":"title","oldContent":"previous content","newContent":"new content"}
` + "```" + `
- Plain conversation needs no JSON at all.`

// BuildPlanMessages renders the context snapshot into the provider-neutral
// conversation: one system turn carrying the instructions and all collected
// context, then the session history, then the current user turn.
func BuildPlanMessages(snapshot *models.AgentContext) []models.ChatMessage {
	var system strings.Builder
	system.WriteString(systemPrompt)

	writeBusinessSection(&system, "Global business information", snapshot.GlobalBusiness)
	writeBusinessSection(&system, "Project business information", snapshot.ProjectBusiness)

	if len(snapshot.ReferencedPrompts) > 0 {
		system.WriteString("\n\n## Referenced prompts")
		for _, p := range snapshot.ReferencedPrompts {
			fmt.Fprintf(&system, "\n\n### %s (ID: %s)", p.Title, p.ID)
			if p.Description != "" {
				fmt.Fprintf(&system, "\nDescription: %s", p.Description)
			}
			fmt.Fprintf(&system, "\nContent:\n%s", p.Content)
		}
	}

	if len(snapshot.ReferencedDocuments) > 0 {
		system.WriteString("\n\n## Referenced knowledge documents")
		for _, d := range snapshot.ReferencedDocuments {
			fmt.Fprintf(&system, "\n\n### %s (%s)", d.Name, d.Type)
			fmt.Fprintf(&system, "\n%s", d.Content)
		}
	}

	messages := []models.ChatMessage{
		{Role: models.RoleSystem, Content: system.String()},
	}

	for _, msg := range snapshot.SessionHistory {
		messages = append(messages, models.ChatMessage{Role: msg.Role, Content: msg.Content})
	}

	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: snapshot.UserMessage})

	return messages
}

// BuildExecuteMessages extends the plan conversation with the confirmation
// turn that moves the agent from planning to execution.
func BuildExecuteMessages(snapshot *models.AgentContext, planDescription string) []models.ChatMessage {
	messages := BuildPlanMessages(snapshot)
	messages = append(messages, models.ChatMessage{
		Role:    models.RoleAssistant,
		Content: fmt.Sprintf("The user confirmed the following modification plan:\n%s\n\nExecuting it step by step now.", planDescription),
	})
	return messages
}

func writeBusinessSection(b *strings.Builder, title string, info models.BusinessInfo) {
	if info.Description == "" && info.Goal == "" && info.Background == "" {
		return
	}
	fmt.Fprintf(b, "\n\n## %s", title)
	if info.Description != "" {
		fmt.Fprintf(b, "\n### Description\n%s", info.Description)
	}
	if info.Goal != "" {
		fmt.Fprintf(b, "\n### Goal\n%s", info.Goal)
	}
	if info.Background != "" {
		fmt.Fprintf(b, "\n### Background\n%s", info.Background)
	}
}

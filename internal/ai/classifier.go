// Package ai wraps the external model that classifies support tickets.
// The model is instructed to emit one raw JSON object; everything in
// this package exists to get from free-form model text to a validated
// domain.ClassificationResult or a failure.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Classifier produces a structured classification for a ticket.
type Classifier interface {
	Classify(ctx context.Context, ticket *domain.Ticket) (*domain.ClassificationResult, error)
}

const systemInstruction = `You are an expert AI assistant that processes technical support tickets. Your task is to analyze the ticket information and respond with *only* a valid, raw JSON object.

Do NOT include markdown, code fences (like ` + "```json" + `), comments, or any extra text.

The JSON object must have the following structure:
- "summary": A short 1-2 sentence summary of the issue.
- "priority": One of "low", "medium", or "high".
- "helpfulNotes": A detailed technical explanation and potential steps for a human moderator to resolve the issue. Include external resource links if relevant.
- "relatedSkills": An array of technical skills required to solve this (e.g., ["React", "MongoDB", "CSS"]).`

func buildPrompt(ticket *domain.Ticket) string {
	return fmt.Sprintf("Ticket Title: %s\nTicket Description: %s", ticket.Title, ticket.Description)
}

// ParseClassification converts raw model output into a validated
// result. Code-fence markers are stripped first since models do not
// always obey the no-markdown instruction. An invalid or absent
// priority falls back to "medium" by policy; missing relatedSkills
// default to an empty slice. Unparseable output is an error.
func ParseClassification(raw string) (*domain.ClassificationResult, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil, fmt.Errorf("model output is empty")
	}

	var payload struct {
		Summary       string   `json:"summary"`
		Priority      string   `json:"priority"`
		HelpfulNotes  string   `json:"helpfulNotes"`
		RelatedSkills []string `json:"relatedSkills"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}

	priority := domain.TicketPriority(strings.ToLower(strings.TrimSpace(payload.Priority)))
	if !domain.ValidPriority(priority) {
		priority = domain.TicketPriorityMedium
	}

	skills := payload.RelatedSkills
	if skills == nil {
		skills = []string{}
	}

	return &domain.ClassificationResult{
		Summary:       payload.Summary,
		Priority:      priority,
		HelpfulNotes:  payload.HelpfulNotes,
		RelatedSkills: skills,
	}, nil
}

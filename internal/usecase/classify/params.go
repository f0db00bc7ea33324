package classify

import (
	"strings"
)

// IntentParams is the typed parameter payload extracted for one intent
// detection. Each concrete type knows how to flatten itself into the
// map shape stored on the automation event.
type IntentParams interface {
	Map() map[string]interface{}
}

type ScheduleMeetingParams struct {
	Date string
	Time string
}

func (p ScheduleMeetingParams) Map() map[string]interface{} {
	m := map[string]interface{}{}
	if p.Date != "" {
		m["date"] = p.Date
	}
	if p.Time != "" {
		m["time"] = p.Time
	}
	return m
}

type CreateTicketParams struct {
	Title    string
	Priority string
}

func (p CreateTicketParams) Map() map[string]interface{} {
	m := map[string]interface{}{}
	if p.Title != "" {
		m["title"] = p.Title
	}
	if p.Priority != "" {
		m["priority"] = p.Priority
	}
	return m
}

type EmailParams struct {
	Recipients []string
}

func (p EmailParams) Map() map[string]interface{} {
	m := map[string]interface{}{}
	if len(p.Recipients) > 0 {
		recipients := make([]interface{}, len(p.Recipients))
		for i, r := range p.Recipients {
			recipients[i] = r
		}
		m["recipients"] = recipients
	}
	return m
}

type VisualizationParams struct {
	ChartType string
	Subject   string
}

func (p VisualizationParams) Map() map[string]interface{} {
	m := map[string]interface{}{}
	if p.ChartType != "" {
		m["chart_type"] = p.ChartType
	}
	if p.Subject != "" {
		m["subject"] = p.Subject
	}
	return m
}

type NoteParams struct {
	Note string
}

func (p NoteParams) Map() map[string]interface{} {
	m := map[string]interface{}{}
	if p.Note != "" {
		m["note"] = p.Note
	}
	return m
}

func extractScheduleMeetingParams(trigger string) ScheduleMeetingParams {
	p := ScheduleMeetingParams{}
	if m := dayRe.FindString(trigger); m != "" {
		p.Date = strings.ToLower(m)
	}
	if m := clockRe.FindString(trigger); m != "" {
		p.Time = strings.ToLower(strings.Join(strings.Fields(m), ""))
	}
	return p
}

func extractCreateTicketParams(trigger string) CreateTicketParams {
	p := CreateTicketParams{
		Title: strings.TrimSpace(ticketLeadRe.ReplaceAllString(trigger, "")),
	}
	if priorityRe.MatchString(trigger) {
		p.Priority = "high"
	}
	return p
}

func extractEmailParams(trigger string) EmailParams {
	p := EmailParams{Recipients: emailRe.FindAllString(trigger, -1)}
	if len(p.Recipients) == 0 && strings.Contains(strings.ToLower(trigger), "the team") {
		p.Recipients = []string{"team"}
	}
	return p
}

func extractVisualizationParams(trigger string) VisualizationParams {
	p := VisualizationParams{}
	if m := chartTypeRe.FindString(trigger); m != "" {
		p.ChartType = strings.ToLower(m)
	}
	if idx := strings.Index(strings.ToLower(trigger), " of "); idx >= 0 {
		p.Subject = strings.TrimSpace(trigger[idx+len(" of "):])
	}
	return p
}

func extractNoteParams(trigger string) NoteParams {
	return NoteParams{Note: strings.TrimSpace(reminderRe.ReplaceAllString(trigger, ""))}
}

package notify

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
)

// Message is rendered notification content. Dispatch is the driver's job.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Renderer turns (record, intent) pairs into messages using a catalog.
type Renderer struct {
	catalog       Catalog
	senderName    string
	senderCompany string
	approverEmail string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithSender overrides the sender signature.
func WithSender(name, company string) RendererOption {
	return func(r *Renderer) {
		r.senderName = name
		r.senderCompany = company
	}
}

// WithApproverEmail overrides the address for approver-facing intents.
func WithApproverEmail(email string) RendererOption {
	return func(r *Renderer) { r.approverEmail = email }
}

// NewRenderer creates a Renderer over the given catalog.
func NewRenderer(catalog Catalog, opts ...RendererOption) *Renderer {
	r := &Renderer{
		catalog:       catalog,
		senderName:    "Arron",
		senderCompany: "GritForge Consultants",
		approverEmail: "sean@example.com",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// recordView is the placeholder namespace exposed to templates.
type recordView struct {
	BidID         string
	ProjectName   string
	GCCompany     string
	EstimatorName string
	Platform      string
	Question      string
	DeadlineText  string
	SubmittedText string
	ProofText     string
	SenderName    string
	SenderCompany string
}

// timeText is the human format used in message bodies.
const timeText = "Jan 02, 2006 at 3:04 PM"

// Render produces the message for an intent. Approver-facing intents
// (blocked, submitted) address the approver; follow-up intents address the
// bid's estimator.
func (r *Renderer) Render(rec *bid.Record, intent lifecycle.Intent) (Message, error) {
	name, to, err := r.route(rec, intent)
	if err != nil {
		return Message{}, err
	}

	tmpl, ok := r.catalog[name]
	if !ok {
		return Message{}, fmt.Errorf("render %s: no template %q in catalog", intent.Kind, name)
	}

	view := recordView{
		BidID:         rec.ID,
		ProjectName:   rec.ProjectName,
		GCCompany:     rec.GCCompany,
		EstimatorName: rec.EstimatorName,
		Platform:      rec.Platform,
		DeadlineText:  "ASAP",
		ProofText:     "saved",
		SenderName:    r.senderName,
		SenderCompany: r.senderCompany,
	}
	if rec.Blocked != nil {
		view.Question = rec.Blocked.Question
		if rec.Blocked.Deadline != nil {
			view.DeadlineText = rec.Blocked.Deadline.Format(timeText)
		}
	}
	if rec.SubmittedAt != nil {
		view.SubmittedText = rec.SubmittedAt.Format(timeText)
	}
	if rec.ProofRef != "" {
		view.ProofText = rec.ProofRef
	}

	subject, err := execute(name+".subject", tmpl.Subject, view)
	if err != nil {
		return Message{}, err
	}
	body, err := execute(name+".body", tmpl.Body, view)
	if err != nil {
		return Message{}, err
	}

	return Message{To: to, Subject: subject, Body: body}, nil
}

// route resolves an intent to its template name and recipient, checking the
// record carries the fields the template needs.
func (r *Renderer) route(rec *bid.Record, intent lifecycle.Intent) (name, to string, err error) {
	switch intent.Kind {
	case lifecycle.IntentBlocked:
		if rec.Blocked == nil {
			return "", "", fmt.Errorf("render blocked: bid %s has no blocked sub-record", rec.ID)
		}
		return "blocked", r.approverEmail, nil

	case lifecycle.IntentSubmitted:
		if rec.SubmittedAt == nil {
			return "", "", fmt.Errorf("render submitted: bid %s has no submission time", rec.ID)
		}
		return "submitted", r.approverEmail, nil

	case lifecycle.IntentFollowUp:
		if !intent.FollowUp.Valid() {
			return "", "", fmt.Errorf("render followup: unknown kind %q", intent.FollowUp)
		}
		return string(intent.FollowUp), rec.EstimatorEmail, nil

	default:
		return "", "", fmt.Errorf("render: unknown intent kind %q", intent.Kind)
	}
}

// execute parses and runs one template source against the view.
// Option("missingkey=error") surfaces placeholder typos as errors instead of
// "<no value>" leaking into outbound mail.
func execute(name, src string, view recordView) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return sb.String(), nil
}

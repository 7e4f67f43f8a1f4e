package usecase

import (
	"bytes"
	"context"
	"html/template"
	"log"
	"strings"

	"translation_desk/internal/domain/entities"
	"translation_desk/internal/usecase/interfaces"
)

var mailTemplates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`
{{define "new_quote"}}<h2>New quote request</h2>
<p><b>Quote:</b> {{.Quote.ID}}</p>
<p><b>From:</b> {{.Quote.Name}} &lt;{{.Quote.Email}}&gt;{{if .Quote.Company}} ({{.Quote.Company}}){{end}}</p>
<p><b>Service:</b> {{.Quote.Service}} | <b>Urgency:</b> {{.Quote.Urgency}}</p>
<p><b>Languages:</b> {{.Quote.SourceLanguage}} to {{join .Quote.TargetLanguages ", "}}</p>
<p><b>Documents:</b> {{len .Quote.Documents}}</p>
{{if .Quote.SpecialInstructions}}<p><b>Instructions:</b> {{.Quote.SpecialInstructions}}</p>{{end}}{{end}}

{{define "submission_confirmation"}}<h2>We received your request</h2>
<p>Hello {{.Quote.Name}},</p>
<p>Your {{.Quote.Service}} request ({{.Quote.SourceLanguage}} to {{join .Quote.TargetLanguages ", "}}) has reference <b>{{.Quote.ID}}</b>.</p>
<p>Our team will review it and send you a quote shortly.</p>{{end}}

{{define "status_changed"}}<h2>Quote {{.Quote.ID}} updated</h2>
<p><b>By:</b> {{.Actor.Email}} ({{.Actor.Role}})</p>
<p><b>Status:</b> {{.Quote.Status}}</p>
<p><b>Payment status:</b> {{.Quote.PaymentStatus}}</p>
{{if gt .Quote.Price 0.0}}<p><b>Price:</b> {{printf "%.2f" .Quote.Price}}</p>{{end}}{{end}}

{{define "new_message"}}<h2>New message on quote {{.Quote.ID}}</h2>
<p><b>From:</b> {{.Message.Sender}}</p>
<p>{{.Message.Content}}</p>{{end}}

{{define "deliverables_ready"}}<h2>Your translation is ready</h2>
<p>Hello {{.Quote.Name}},</p>
<p>New files were attached to quote <b>{{.Quote.ID}}</b>:</p>
<ul>{{range .Documents}}<li><a href="{{.URL}}">{{.Name}}</a></li>{{end}}</ul>{{end}}

{{define "payment_reminder"}}<h2>Payment pending</h2>
<p>Hello {{.Quote.Name}},</p>
<p>Quote <b>{{.Quote.ID}}</b> is waiting for payment of <b>{{printf "%.2f" .Quote.Price}}</b>.</p>
<p>Work starts as soon as the payment is confirmed.</p>{{end}}
`))

type mailData struct {
	Quote     entities.Quote
	Actor     entities.Actor
	Message   entities.Message
	Documents []entities.Document
}

// dispatcher renders and sends notifications. Delivery errors are logged and dropped.
type dispatcher struct {
	notifier    interfaces.INotifier
	adminEmails []string
}

func (d dispatcher) send(ctx context.Context, to []string, subject, tmpl string, data mailData) {
	if d.notifier == nil || len(to) == 0 {
		return
	}
	var body bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&body, tmpl, data); err != nil {
		log.Printf("[quote][notify] render failed template=%s quote_id=%s err=%v", tmpl, data.Quote.ID, err)
		return
	}
	if err := d.notifier.Send(ctx, to, subject, body.String()); err != nil {
		log.Printf("[quote][notify] send failed template=%s quote_id=%s recipients=%d err=%v", tmpl, data.Quote.ID, len(to), err)
	}
}

func (d dispatcher) quoteSubmitted(ctx context.Context, q entities.Quote) {
	d.send(ctx, d.adminEmails, "New quote request "+q.ID, "new_quote", mailData{Quote: q})
	if q.Email != "" {
		d.send(ctx, []string{q.Email}, "Your quote request "+q.ID, "submission_confirmation", mailData{Quote: q})
	}
}

func (d dispatcher) statusChanged(ctx context.Context, actor entities.Actor, before, after entities.Quote) {
	if before.Status == after.Status && before.PaymentStatus == after.PaymentStatus {
		return
	}
	data := mailData{Quote: after, Actor: actor}
	d.send(ctx, d.adminEmails, "Quote "+after.ID+" is now "+string(after.Status), "status_changed", data)
	if actor.IsAdmin() && before.Status != after.Status && after.Email != "" {
		d.send(ctx, []string{after.Email}, "Your quote "+after.ID+" is now "+string(after.Status), "status_changed", data)
	}
}

func (d dispatcher) messageAppended(ctx context.Context, q entities.Quote, m entities.Message) {
	to := d.adminEmails
	if m.Sender == entities.RoleAdmin {
		to = nil
		if q.Email != "" {
			to = []string{q.Email}
		}
	}
	d.send(ctx, to, "New message on quote "+q.ID, "new_message", mailData{Quote: q, Message: m})
}

func (d dispatcher) deliverablesReady(ctx context.Context, q entities.Quote, docs []entities.Document) {
	if q.Email == "" {
		return
	}
	d.send(ctx, []string{q.Email}, "Files ready for quote "+q.ID, "deliverables_ready", mailData{Quote: q, Documents: docs})
}

func (d dispatcher) paymentReminder(ctx context.Context, q entities.Quote) bool {
	if d.notifier == nil || q.Email == "" {
		return false
	}
	d.send(ctx, []string{q.Email}, "Payment pending for quote "+q.ID, "payment_reminder", mailData{Quote: q})
	return true
}

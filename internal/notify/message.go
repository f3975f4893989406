package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/aquavo/support-backend/internal/models"
)

const defaultFrontendURL = "http://localhost:5173"

var ticketBody = template.Must(template.New("ticket").Parse(`<div dir="rtl" style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">تذكرة دعم جديدة تحتاج انتباهك</h2>
  <div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>رقم التذكرة:</strong> {{.TicketID}}</p>
    <p><strong>الأولوية:</strong> <span style="color: {{.Color}};">{{.Priority}}</span></p>
    <p><strong>العميل:</strong> {{.CustomerName}}</p>
  </div>
  <p>تم تحويل المحادثة من الذكاء الاصطناعي إلى الدعم البشري.</p>
  <a href="{{.DashboardURL}}" style="display: inline-block; background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 20px;">فتح لوحة التحكم</a>
  <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">هذا إشعار تلقائي من نظام AQUAVO</p>
</div>
`))

// DashboardURL is the support tab of the admin dashboard.
func DashboardURL(frontendURL string) string {
	if strings.TrimSpace(frontendURL) == "" {
		frontendURL = defaultFrontendURL
	}
	return strings.TrimRight(frontendURL, "/") + "/admin?tab=support"
}

// NewTicketMessage renders the notification for a new ticket. To is left for
// the caller to fill per recipient.
func NewTicketMessage(ticketID string, priority models.Priority, customerName, frontendURL string) Message {
	data := struct {
		TicketID     string
		Priority     string
		CustomerName string
		Color        template.CSS
		DashboardURL string
	}{
		TicketID:     ticketID,
		Priority:     string(priority),
		CustomerName: customerName,
		Color:        priorityColor(priority),
		DashboardURL: DashboardURL(frontendURL),
	}

	var body bytes.Buffer
	if err := ticketBody.Execute(&body, data); err != nil {
		body.Reset()
		fmt.Fprintf(&body, "Ticket %s (%s) from %s: %s", ticketID, priority, customerName, data.DashboardURL)
	}

	return Message{
		Subject: fmt.Sprintf("🔔 تذكرة دعم جديدة - AQUAVO [%s]", strings.ToUpper(string(priority))),
		Body:    body.String(),
	}
}

func priorityColor(p models.Priority) template.CSS {
	switch p {
	case models.PriorityUrgent:
		return "#dc2626"
	case models.PriorityHigh:
		return "#ea580c"
	default:
		return "#059669"
	}
}

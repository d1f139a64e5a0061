package notify

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/Abhinavj12/hackfest-2025/internal/config"
	"github.com/Abhinavj12/hackfest-2025/internal/model"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	checkinPrefix = "hackfest:checkin:"
	qrContentID   = "checkin-qr"
	qrFileName    = "checkin.png"
	qrSize        = 256
)

// Email is a rendered confirmation message.
type Email struct {
	Subject   string
	HTML      string
	CheckinQR []byte
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background: #f5f7fb;">
  <div style="background: white; padding: 30px; border-radius: 10px;">
    <div style="text-align: center; margin-bottom: 30px;">
      <h1 style="color: #667eea; margin: 0; font-size: 28px;">🚀 {{.Event.Name}}</h1>
      <p style="color: #666; margin: 10px 0 0 0; font-size: 16px;">Registration Confirmed!</p>
    </div>

    <div style="background: #f8f9ff; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
      <h2 style="color: #333; margin-top: 0;">Team Details:</h2>
      <p><strong>Team Name:</strong> {{.Team.TeamName}}</p>
      <p><strong>Team Leader:</strong> {{.Team.TeamLeader}}</p>
      <p><strong>College:</strong> {{.Team.College}}</p>
      <p><strong>Track:</strong> {{.Track}}</p>
      <p><strong>Experience Level:</strong> {{.Experience}}</p>
      {{- if .Team.Members}}
      <p><strong>Members:</strong> {{range $i, $m := .Team.Members}}{{if $i}}, {{end}}{{$m}}{{end}}</p>
      {{- end}}
    </div>

    <div style="background: #e8f5e8; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
      <h3 style="color: #2d5a2d; margin-top: 0;">📅 Event Details:</h3>
      <p><strong>Date:</strong> {{.Event.Date}}</p>
      <p><strong>Venue:</strong> {{.Event.Venue}}</p>
      <p><strong>Registration:</strong> 9:00 AM (Day 1)</p>
    </div>

    <div style="text-align: center; margin-bottom: 20px;">
      <p style="color: #333;">Show this code at the registration desk:</p>
      <img src="cid:{{.QRContentID}}" alt="Check-in code" width="{{.QRSize}}" height="{{.QRSize}}">
    </div>

    <div style="background: #fff3cd; padding: 20px; border-radius: 8px;">
      <h3 style="color: #856404; margin-top: 0;">⚡ What's Next?</h3>
      <ul style="color: #856404;">
        <li>Check your email regularly for updates</li>
        <li>Join our Discord server (link will be shared soon)</li>
        <li>Start brainstorming your project idea</li>
        <li>Bring your laptops and chargers on event day</li>
      </ul>
    </div>

    <div style="text-align: center; margin-top: 30px;">
      <p style="color: #666; font-size: 14px;">
        If you have any questions, reach out to us at
        <a href="mailto:{{.Event.ContactEmail}}" style="color: #667eea;">{{.Event.ContactEmail}}</a>
      </p>
      <p style="color: #999; font-size: 12px; margin-top: 20px;">
        This is an automated email. Please do not reply directly to this message.
      </p>
    </div>
  </div>
</div>`))

// Composer renders confirmation emails for one event.
type Composer struct {
	event config.Event
}

func NewComposer(event config.Event) *Composer {
	return &Composer{event: event}
}

func (c *Composer) Subject() string {
	return "🎉 " + c.event.Name + " Registration Confirmed!"
}

func (c *Composer) Compose(team *model.Team) (*Email, error) {
	if team == nil {
		return nil, errors.New("nil team")
	}

	png, err := qrcode.Encode(CheckinCode(team.ID), qrcode.Medium, qrSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode check-in code")
	}

	var buf bytes.Buffer
	err = confirmationTemplate.Execute(&buf, struct {
		Team        *model.Team
		Track       string
		Experience  string
		Event       config.Event
		QRContentID string
		QRSize      int
	}{
		Team:        team,
		Track:       title(string(team.Track)),
		Experience:  title(string(team.Experience)),
		Event:       c.event,
		QRContentID: qrContentID,
		QRSize:      qrSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render confirmation email")
	}

	return &Email{
		Subject:   c.Subject(),
		HTML:      buf.String(),
		CheckinQR: png,
	}, nil
}

// CheckinCode is the payload scanned at the registration desk.
func CheckinCode(teamID string) string {
	return checkinPrefix + teamID
}

func title(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package email

import (
	"time"

	"github.com/ansari-project/maix-server/config"
	"github.com/ansari-project/maix-server/utils"
	"github.com/rs/zerolog/log"
	mail "github.com/xhit/go-simple-mail/v2"
)

const invitationSubject = "You have been invited to join {{entity.name}}"

const invitationTemplate = `<html>
<body>
<p>Hi,</p>
<p>{{inviter.name}} has invited you to join the {{entity.type}} <b>{{entity.name}}</b> as a {{role}}.</p>
<p>{{message}}</p>
<p><a href="{{invitation.url}}">Accept the invitation</a> before {{invitation.expires}}.</p>
<p>If you were not expecting this, you can ignore this email.</p>
</body>
</html>`

// InvitationMail is everything the notifier needs to render one invitation
// email. Delivery is fire-and-forget: a failed send is logged and never
// rolls the invitation back.
type InvitationMail struct {
	Recipient     string
	InviterName   string
	EntityType    string
	EntityName    string
	Role          string
	Message       string
	InvitationUrl string
	ExpiresAt     time.Time
}

type Mailer struct {
	client *mail.SMTPClient
	from   string
}

func NewMailer(client *mail.SMTPClient, config *config.Config) *Mailer {
	return &Mailer{client: client, from: config.EmailConfig.From}
}

func (m *Mailer) SendInvitation(msg InvitationMail) {
	vars := map[string]string{
		"{{inviter.name}}":       msg.InviterName,
		"{{entity.type}}":        msg.EntityType,
		"{{entity.name}}":        msg.EntityName,
		"{{role}}":               msg.Role,
		"{{message}}":            msg.Message,
		"{{invitation.url}}":     msg.InvitationUrl,
		"{{invitation.expires}}": msg.ExpiresAt.Format(time.RFC1123),
	}

	email := mail.NewMSG()
	email.SetFrom(m.from).
		AddTo(msg.Recipient).
		SetSubject(utils.Format(invitationSubject, vars)).
		SetBody(mail.TextHTML, utils.Format(invitationTemplate, vars))

	if email.Error != nil {
		log.Error().Err(email.Error).Str("to", msg.Recipient).Msg("Could not build invitation email")
		return
	}

	if err := email.Send(m.client); err != nil {
		log.Error().Err(err).Str("to", msg.Recipient).Msg("Could not send invitation email")
	}
}

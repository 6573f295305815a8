package email

// Driver names accepted by MAIL_DRIVER.
const (
	DriverGraph    = "graph"
	DriverPostmark = "postmark"
	DriverDev      = "dev"
)

// DefaultFooter is appended to every message rendered with the branded layout.
const DefaultFooter = "This email was sent by Cre8tive AI's automated system."

// Config selects the outbound mail driver. The Graph driver is configured
// through the graph package; SenderUPN is the mailbox it sends as.
// The Postmark tokens and addresses are only read when MAIL_DRIVER=postmark.
type Config struct {
	Driver               string `env:"MAIL_DRIVER" envDefault:"graph"`
	SenderUPN            string `env:"SENDER_UPN"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"MAIL_FROM"`
	SupportEmail         string `env:"MAIL_REPLY_TO"`
	DevDir               string `env:"MAIL_DEV_DIR" envDefault:"./tmp/emails"`
	Footer               string `env:"MAIL_FOOTER" envDefault:"This email was sent by Cre8tive AI's automated system."`
}

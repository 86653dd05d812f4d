package notify

// Config configures the Postmark-backed operator notifier. ServerToken,
// SenderEmail and OperatorEmail are required for NotifyFatal to function;
// if any of them is empty, notification is disabled entirely (New returns
// a no-op Notifier). AccountToken is optional.
type Config struct {
	ServerToken   string `env:"POSTMARK_SERVER_TOKEN"`
	AccountToken  string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail   string `env:"NOTIFY_SENDER_EMAIL"`
	OperatorEmail string `env:"NOTIFY_OPERATOR_EMAIL"`
}

func (c Config) enabled() bool {
	return c.ServerToken != "" && c.SenderEmail != "" && c.OperatorEmail != ""
}

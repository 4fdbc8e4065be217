package email

// Config holds transactional email settings. The Postmark tokens are optional
// so development environments can run with the logging sender instead.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@sumquiz.app"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@sumquiz.app"`
}

// Configured reports whether Postmark credentials are present.
func (c Config) Configured() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}

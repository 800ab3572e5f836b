package notification

import "context"

// Template names understood by every Notifier.
const (
	TemplateActivation     = "activation"
	TemplateForgotPassword = "forgot_password"
)

type Message struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

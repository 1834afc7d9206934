package ports

import (
	"context"
)

// TaskSendTemplateEmail is consumed by the mail worker.
const TaskSendTemplateEmail = "send_template_email"

// TemplateEmail is the payload of TaskSendTemplateEmail.
type TemplateEmail struct {
	Recipients []string          `json:"recipients"`
	Subject    string            `json:"subject"`
	Context    map[string]string `json:"context"`
	Template   string            `json:"template_name"`
}

// TaskDispatcher hands background work to an external worker.
// Enqueue is fire-and-forget: it returns once the broker accepted the task.
type TaskDispatcher interface {
	Enqueue(ctx context.Context, taskName string, payload any) error
}

package httpserver

import "log/slog"

// slogNotifier turns view notifications into structured log lines. The
// frontend shows the same messages as toasts.
type slogNotifier struct {
	l *slog.Logger
}

func (n slogNotifier) Success(message string) {
	n.l.Info("toast", "kind", "success", "message", message)
}

func (n slogNotifier) Failure(message string) {
	n.l.Warn("toast", "kind", "failure", "message", message)
}

package cart

import "go.uber.org/zap"

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-facing message, e.g. an alert shown by the UI.
type Notice struct {
	Level   NoticeLevel
	Title   string
	Message string
}

type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type logNotifier struct {
	logger *zap.Logger
}

func (l logNotifier) Notify(n Notice) {
	l.logger.Warn("user notice",
		zap.String("level", string(n.Level)),
		zap.String("title", n.Title),
		zap.String("message", n.Message))
}

var emptyCartNotice = Notice{
	Level:   NoticeWarning,
	Title:   "Your cart is empty",
	Message: "Add at least one product before checking out.",
}

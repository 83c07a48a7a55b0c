package errors

import "github.com/sirupsen/logrus"

// LogHandler is an ErrorHandler that logs through logrus.
type LogHandler struct {
	// Logger receives the entries. Nil means the standard logrus logger.
	Logger *logrus.Logger
	// Verbose adds stack traces to the log entries.
	Verbose bool
}

func (h *LogHandler) logger() *logrus.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logrus.StandardLogger()
}

// HandleError logs an AppError at warning level.
func (h *LogHandler) HandleError(err *AppError) {
	if err == nil {
		return
	}
	fields := logrus.Fields{
		"op":   err.Op,
		"kind": err.Kind.String(),
	}
	if err.Permission != "" {
		fields["permission"] = err.Permission
	}
	if err.Channel != "" {
		fields["channel"] = err.Channel
	}
	if h.Verbose && err.StackTrace != "" {
		fields["stack"] = err.StackTrace
	}
	h.logger().WithFields(fields).WithTime(err.Timestamp).Warn(errText(err.Err))
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	entry := h.logger().WithField("kind", KindPanic.String()).WithTime(err.Timestamp)
	if err.Op != "" {
		entry = entry.WithField("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		entry = entry.WithField("stack", err.StackTrace)
	}
	entry.Errorf("recovered panic: %v", err.Value)
}

func errText(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

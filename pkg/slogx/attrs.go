package slogx

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const (
	// KeyLoggerName is the key for the logger name attribute.
	KeyLoggerName = "logger"
	// KeyCategory is the key for the message category attribute.
	KeyCategory = "category"
	// KeyMessageType is the key for the message type attribute.
	KeyMessageType = "message_type"
	// KeyUID is the key for the message uid attribute.
	KeyUID = "uid"
)

// Error returns a slog.Attr representing the provided error.
// The attribute key is "error" and the value is the error's message.
//
// Parameters:
//   - err: The error to be converted into a slog.Attr.
//
// Returns:
//   - slog.Attr: An attribute with the key "error" and the error's message as the value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Stringer creates a slog.Attr with the provided key and the string representation
// of the given fmt.Stringer value.
//
// Parameters:
//   - key: A string representing the key for the attribute.
//   - value: An object that implements the fmt.Stringer interface.
//
// Returns:
//   - slog.Attr: An attribute containing the key and the string representation of the value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// LoggerName creates a slog.Attr with the provided logger name.
// The attribute key is defined by KeyLoggerName.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

// Category renders a message category. Anything implementing fmt.Stringer
// works, which keeps this package free of a dependency on the service.
func Category(category fmt.Stringer) slog.Attr {
	return Stringer(KeyCategory, category)
}

// MessageType names the Go type of a message.
func MessageType(name string) slog.Attr {
	return slog.String(KeyMessageType, name)
}

// UID renders a message uid.
func UID(id uuid.UUID) slog.Attr {
	return slog.String(KeyUID, id.String())
}

package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Recipient records an email recipient under the key "recipient".
func Recipient(addr string) slog.Attr {
	return slog.String("recipient", addr)
}

// EmailType records the canonical message type under the key "email_type".
func EmailType(t string) slog.Attr {
	return slog.String("email_type", t)
}

// Transport records the delivery channel under the key "transport".
func Transport(name string) slog.Attr {
	return slog.String("transport", name)
}

// OrderNumber records the order identifier under the key "order_number".
func OrderNumber(number string) slog.Attr {
	return slog.String("order_number", number)
}

// ContactID records a contact submission identifier under the key "contact_id".
func ContactID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("contact_id", id)
}

// Code records a stable machine failure code under the key "code".
func Code(code string) slog.Attr {
	return slog.String("code", code)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

package domain

import (
	"errors"
	"fmt"
)

// ErrorKind класс ошибки, по нему UI и HTTP слой решают, что показать
type ErrorKind string

const (
	KindInputInvalid     ErrorKind = "input_invalid"
	KindNotFound         ErrorKind = "not_found"
	KindLookupFailed     ErrorKind = "lookup_failed"
	KindValidationFailed ErrorKind = "validation_failed"
	KindDispatchFailed   ErrorKind = "dispatch_failed"
	KindExpired          ErrorKind = "expired"
	KindInternal         ErrorKind = "internal"
)

// Поля формы заказа
const (
	FieldRecipient     = "recipient"
	FieldQuantity      = "quantity"
	FieldPaymentMethod = "payment_method"
	FieldProduct       = "product"
	FieldHandle        = "handle"
)

// Коды ошибок для презентационного слоя
const (
	CodeQuantityInvalid          = "quantity_invalid"
	CodeMinimumNotMet            = "minimum_not_met"
	CodeMaximumExceeded          = "maximum_exceeded"
	CodePackageUnavailable       = "package_unavailable"
	CodeRecipientRequired        = "recipient_required"
	CodePaymentMethodRequired    = "payment_method_required"
	CodePaymentMethodUnsupported = "payment_method_unsupported"
	CodeProductUnsupported       = "product_unsupported"
	CodeUserNotFound             = "user_not_found"
	CodeLookupFailed             = "lookup_failed"
	CodeNoPendingOrder           = "no_pending_order"
	CodeOrderExpired             = "order_expired"
)

var (
	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrRecipientUnreachable = errors.New("recipient unreachable")
	ErrNoPendingOrder       = errors.New("no pending order")
)

// Error ошибка бизнес-логики с классом, полем формы и кодом для UI
type Error struct {
	Kind  ErrorKind
	Field string
	Code  string
	Err   error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать по классу: errors.Is(err, &Error{Kind: KindNotFound})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

func NewInputInvalid(field, code string) *Error {
	return &Error{Kind: KindInputInvalid, Field: field, Code: code}
}

func NewValidationFailed(field, code string) *Error {
	return &Error{Kind: KindValidationFailed, Field: field, Code: code}
}

func NewExpired(err error) *Error {
	return &Error{Kind: KindExpired, Code: CodeOrderExpired, Err: err}
}

// WrapLookupFailed оборачивает сетевую/удалённую ошибку поиска получателя
func WrapLookupFailed(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindLookupFailed, Code: CodeLookupFailed, Err: err}
}

// KindOf класс ошибки; всё, что не *Error, считается внутренней ошибкой
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	if errors.Is(err, ErrRecipientNotFound) {
		return KindNotFound
	}
	if errors.Is(err, ErrNoPendingOrder) {
		return KindExpired
	}
	return KindInternal
}

// AsError достаёт *Error из цепочки
func AsError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// TelegramAPIError ошибка, которую вернул сам Bot API (ok=false)
type TelegramAPIError struct {
	Method      string
	Code        int
	Description string
}

func (e *TelegramAPIError) Error() string {
	return fmt.Sprintf("telegram API error: %s (method: %s, code: %d)", e.Description, e.Method, e.Code)
}

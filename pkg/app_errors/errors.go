package apperrors

import (
	"errors"
	"net/http"
)

// Kind 錯誤分類，對應到傳輸層的狀態碼
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindForbidden       Kind = "forbidden"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
	// KindRateLimited 只由 HTTP 限流使用，不屬於業務錯誤
	KindRateLimited     Kind = "rate_limited"
)

// AppError 業務錯誤：Kind 決定狀態碼，Code 為機器可讀代碼，Cause 為給使用者看的原因
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Cause   string
}

func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func (e *AppError) Error() string {
	if e.Cause != "" {
		return e.Message + ": " + e.Cause
	}
	return e.Message
}

// Is 以 Code 比對，WithCause 產生的副本仍然符合原本的 sentinel
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause 回傳帶有具體原因的副本，不修改 sentinel 本身
func (e *AppError) WithCause(cause string) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Body 回應中的錯誤內容
type Body struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Cause  string `json:"cause"`
	Status int    `json:"status"`
}

// Response 所有 API 失敗回應的格式 {"error": {...}}
type Response struct {
	Error Body `json:"error"`
}

func (e *AppError) Response() Response {
	cause := e.Cause
	if cause == "" {
		cause = e.Message
	}
	return Response{Error: Body{
		Name:   e.Message,
		Code:   e.Code,
		Cause:  cause,
		Status: e.Status(),
	}}
}

// From 取出錯誤鏈中的 AppError；非預期錯誤一律轉成 ErrInternalServerError，細節只寫 log
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServerError
}

// KindOf 回傳錯誤的分類
func KindOf(err error) Kind {
	return From(err).Kind
}

var (
	ErrCartNotFound    = New(KindNotFound, "UNDEFINED_CART", "Cart not found")
	ErrProductNotFound = New(KindNotFound, "UNDEFINED_PRODUCT", "Product not found")
	ErrTicketNotFound  = New(KindNotFound, "UNDEFINED_TICKET", "Ticket not found")
	ErrUserNotFound    = New(KindNotFound, "UNDEFINED_USER", "User not found")

	ErrInvalidInput       = New(KindInvalidArgument, "INVALID_INPUT", "Invalid input")
	ErrInvalidQuantity    = New(KindInvalidArgument, "INVALID_QUANTITY", "Invalid quantity")
	ErrInvalidPage        = New(KindInvalidArgument, "INVALID_PAGE_NUMBER", "Invalid page")
	ErrInvalidProductData = New(KindInvalidArgument, "INVALID_PRODUCT_DATA", "Invalid product data")
	ErrNoFieldsToUpdate   = New(KindInvalidArgument, "PRODUCT_UPDATE_ERROR", "No fields to update")

	ErrForbidden    = New(KindForbidden, "ACCESS_DENIED", "Access denied")
	ErrOwnProduct   = New(KindForbidden, "OWN_PRODUCT", "Cannot add own product to cart")
	ErrInvalidToken = New(KindForbidden, "INVALID_TOKEN", "Invalid access token")

	ErrDuplicateProductCode = New(KindConflict, "DUPLICATE_PRODUCT_CODE", "Duplicate product code")
	ErrDuplicateTicketCode  = New(KindConflict, "DUPLICATE_TICKET_CODE", "Duplicate ticket code")

	ErrInternalServerError = New(KindInternal, "INTERNAL_ERROR", "Internal server error")
	ErrTooManyRequests     = New(KindRateLimited, "TOO_MANY_REQUESTS", "Too many requests")
)

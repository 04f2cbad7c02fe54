package service

import "errors"

// Kind classifies a domain error for the HTTP layer.
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindNotFound
	KindUnauthorized
	KindForbidden
)

// Error is a domain error whose message is safe to show to clients.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func invalid(msg string) error { return &Error{Kind: KindInvalid, Msg: msg} }

var (
	ErrBookNotFound    = &Error{KindNotFound, "Book not found"}
	ErrBookExists      = &Error{KindInvalid, "Book with this ISBN already exists"}
	ErrInvalidPrice    = &Error{KindInvalid, "Invalid price"}
	ErrISBNRequired    = &Error{KindInvalid, "ISBN is required"}
	ErrTitleRequired   = &Error{KindInvalid, "Title is required"}
	ErrInvalidQuantity = &Error{KindInvalid, "Quantity must be at least 1"}
	ErrNotInCart       = &Error{KindNotFound, "Book not found in cart"}
	ErrCartNotFound    = &Error{KindNotFound, "Cart not found"}

	ErrInvalidCredentials = &Error{KindUnauthorized, "Invalid login credentials"}
	ErrAccountExists      = &Error{KindUnauthorized, "Account already exists"}
	ErrUserNotFound       = &Error{KindNotFound, "User not found"}
	ErrEmailInUse         = &Error{KindInvalid, "Email already in use"}
	ErrIncorrectPassword  = &Error{KindInvalid, "Current password is incorrect"}
)

// AsError returns the domain error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

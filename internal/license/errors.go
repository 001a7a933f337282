package license

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("invalid license request")
	// ErrKeyLoad is matched by every *KeyLoadError.
	ErrKeyLoad = errors.New("load signing key")
	// ErrSigner is matched by every *SignerError.
	ErrSigner = errors.New("sign license")
	// ErrCodec is matched by every *CodecError.
	ErrCodec = errors.New("decode license")
)

// Rule identifies the validation rule a request violated.
type Rule string

const (
	RuleCustomerRequired Rule = "customer_required"
	RuleModulesRequired  Rule = "modules_required"
	RuleUnknownModule    Rule = "unknown_module"
	RuleDateFormat       Rule = "date_format"
	RuleDateOrder        Rule = "date_order"
	RuleUnknownScheme    Rule = "unknown_scheme"
)

// ValidationError reports the first rule an issuance request broke.
type ValidationError struct {
	Rule    Rule
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Rule, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Rule, e.Field, e.Message)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// KeyLoadError reports a private key that is missing, unreadable or malformed.
type KeyLoadError struct {
	Path string
	Err  error
}

func (e *KeyLoadError) Error() string {
	return fmt.Sprintf("load signing key %q: %v", e.Path, e.Err)
}

func (e *KeyLoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrKeyLoad.
func (e *KeyLoadError) Is(target error) bool {
	return target == ErrKeyLoad
}

// SignerError reports an unexpected failure while producing a signature.
type SignerError struct {
	Algorithm Algorithm
	Err       error
}

func (e *SignerError) Error() string {
	return fmt.Sprintf("sign with %s: %v", e.Algorithm, e.Err)
}

func (e *SignerError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSigner.
func (e *SignerError) Is(target error) bool {
	return target == ErrSigner
}

// CodecError reports a license blob that is not valid Base64 or JSON.
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// Is reports whether target is ErrCodec.
func (e *CodecError) Is(target error) bool {
	return target == ErrCodec
}

func invalid(rule Rule, field, format string, args ...any) *ValidationError {
	return &ValidationError{Rule: rule, Field: field, Message: fmt.Sprintf(format, args...)}
}

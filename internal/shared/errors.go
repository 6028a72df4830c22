package shared

import (
	"errors"
	"fmt"
	"reflect"

	platformerrors "github.com/jmgilman/go/errors"
)

// Error codes reported by registry operations. NotFound and invalid requests
// use the platform's generic CodeNotFound and CodeInvalidInput.
const (
	// CodeTypeMismatch indicates the stored value was declared with a type the
	// requester cannot hold. Retrying with the same type never succeeds.
	CodeTypeMismatch platformerrors.ErrorCode = "SHARE_TYPE_MISMATCH"

	// CodeCreationFailed indicates the generator failed, panicked, or returned
	// nil. The registry is unchanged and the caller may retry.
	CodeCreationFailed platformerrors.ErrorCode = "SHARE_CREATION_FAILED"

	// CodeNullValue indicates a stored value that cannot be viewed as the
	// requested type even though its declared type allows it.
	CodeNullValue platformerrors.ErrorCode = "SHARE_NULL_VALUE"

	// CodeDisposeFailed indicates the disposal hook of a released value
	// returned an error. The entry has already been removed.
	CodeDisposeFailed platformerrors.ErrorCode = "SHARE_DISPOSE_FAILED"
)

// ErrNilValue is the cause of a CreationFailed error when the generator
// returned a nil reference without an error.
var ErrNilValue = errors.New("generator returned a nil value")

// ErrNotReference is the cause of a CreationFailed error when an interface
// typed generator returned a value of a non-reference kind, such as an int
// boxed in any.
var ErrNotReference = errors.New("generator returned a value that is not a reference type")

// IsTypeMismatch reports whether err is a TypeMismatch failure.
func IsTypeMismatch(err error) bool {
	return platformerrors.GetCode(err) == CodeTypeMismatch
}

// IsCreationFailed reports whether err is a CreationFailed failure.
func IsCreationFailed(err error) bool {
	return platformerrors.GetCode(err) == CodeCreationFailed
}

// IsNullValue reports whether err is a NullValue failure.
func IsNullValue(err error) bool {
	return platformerrors.GetCode(err) == CodeNullValue
}

// IsNotFound reports whether err is a NotFound failure.
func IsNotFound(err error) bool {
	return platformerrors.GetCode(err) == platformerrors.CodeNotFound
}

func typeMismatchError(tag string, e *entry, caller Identity, want reflect.Type) error {
	err := platformerrors.Newf(CodeTypeMismatch,
		"shared data %q was created by %s as %s and cannot be used as %s",
		tag, e.creator, typeName(e.declared), typeName(want))
	return platformerrors.WithContextMap(err, map[string]interface{}{
		"tag":            tag,
		"creator":        string(e.creator),
		"caller":         string(caller),
		"requested_type": typeName(want),
		"stored_type":    typeName(e.declared),
	})
}

func nullValueError(tag string, e *entry, caller Identity, want reflect.Type) error {
	err := platformerrors.Newf(CodeNullValue,
		"shared data %q created by %s holds %T, which is not a %s",
		tag, e.creator, e.value, typeName(want))
	return platformerrors.WithContextMap(err, map[string]interface{}{
		"tag":            tag,
		"creator":        string(e.creator),
		"caller":         string(caller),
		"requested_type": typeName(want),
		"stored_type":    typeName(e.declared),
	})
}

func creationFailedError(tag string, caller Identity, want reflect.Type, cause error) error {
	err := platformerrors.WrapWithContext(cause, CodeCreationFailed,
		fmt.Sprintf("creating shared data %q as %s failed", tag, typeName(want)),
		map[string]interface{}{
			"tag":            tag,
			"caller":         string(caller),
			"requested_type": typeName(want),
		})
	return platformerrors.WithClassification(err, platformerrors.ClassificationRetryable)
}

func notFoundError(tag string, caller Identity) error {
	err := platformerrors.Newf(platformerrors.CodeNotFound, "shared data %q is not registered", tag)
	return platformerrors.WithContextMap(err, map[string]interface{}{
		"tag":    tag,
		"caller": string(caller),
	})
}

func invalidRequestError(tag string, caller Identity, reason string) error {
	err := platformerrors.Newf(platformerrors.CodeInvalidInput, "invalid request for shared data %q: %s", tag, reason)
	return platformerrors.WithContextMap(err, map[string]interface{}{
		"tag":    tag,
		"caller": string(caller),
	})
}

func disposeFailedError(tag string, creator Identity, cause error) error {
	return platformerrors.WrapWithContext(cause, CodeDisposeFailed,
		fmt.Sprintf("disposing shared data %q failed", tag),
		map[string]interface{}{
			"tag":     tag,
			"creator": string(creator),
		})
}

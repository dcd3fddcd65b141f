package cloud

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/smartvault/smartvault/pkg/domain"
)

// classify maps a provider error onto the domain taxonomy using the API
// error code, so batch stages can tell permission problems from transient
// ones without string matching on messages.
func classify(op string, err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return domain.E(domain.KindProvider, op, err)
	}

	code := apiErr.ErrorCode()
	switch {
	case strings.HasSuffix(code, ".NotFound"), code == "NotFoundException":
		return domain.E(domain.KindNotFound, op, err)
	case code == "AccessDenied", code == "AccessDeniedException",
		code == "UnauthorizedOperation", code == "KMSKeyNotAccessibleFault":
		return domain.E(domain.KindAccess, op, err)
	case code == "RequestExpired", code == "RequestLimitExceeded":
		return domain.E(domain.KindProvider, op, err)
	default:
		return domain.E(domain.KindProvider, op, err)
	}
}

// ErrorCode extracts the provider error code for logging, or "" when the
// error did not come from the API.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

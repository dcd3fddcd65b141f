package cloud

import (
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"

	"github.com/smartvault/smartvault/pkg/domain"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "boom"}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		code string
		kind domain.ErrorKind
	}{
		{"InvalidSnapshot.NotFound", domain.KindNotFound},
		{"InvalidVolume.NotFound", domain.KindNotFound},
		{"InvalidSubnetID.NotFound", domain.KindNotFound},
		{"NotFoundException", domain.KindNotFound},
		{"AccessDenied", domain.KindAccess},
		{"UnauthorizedOperation", domain.KindAccess},
		{"KMSKeyNotAccessibleFault", domain.KindAccess},
		{"InvalidParameterValue", domain.KindProvider},
		{"RequestLimitExceeded", domain.KindProvider},
	}

	for _, tc := range cases {
		err := classify("ec2.Test", apiError(tc.code))
		require.Equal(t, tc.kind, domain.KindOf(err), "code %s", tc.code)
		require.Equal(t, tc.code, ErrorCode(err))
	}
}

func TestClassify_NonAPIError(t *testing.T) {
	err := classify("ec2.Test", errors.New("connection reset"))
	require.Equal(t, domain.KindProvider, domain.KindOf(err))
	require.Empty(t, ErrorCode(err))
}

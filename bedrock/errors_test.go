package bedrock

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"

	"github.com/promptfoundry/bedrocklab"
)

// mockAPIError implements smithy.APIError for tests.
type mockAPIError struct {
	code    string
	message string
}

func (e *mockAPIError) Error() string {
	return e.code + ": " + e.message
}

func (e *mockAPIError) ErrorCode() string { return e.code }

func (e *mockAPIError) ErrorMessage() string { return e.message }

func (e *mockAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }

func TestConvertAWSError_StatusCodes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		errorCode      string
		expectedStatus int
	}{
		{"UnrecognizedClientException", http.StatusUnauthorized},
		{"ExpiredTokenException", http.StatusUnauthorized},
		{"AccessDeniedException", http.StatusUnauthorized},
		{"ThrottlingException", http.StatusTooManyRequests},
		{"TooManyRequestsException", http.StatusTooManyRequests},
		{"ProvisionedThroughputExceededException", http.StatusTooManyRequests},
		{"ValidationException", http.StatusBadRequest},
		{"InvalidParameterException", http.StatusBadRequest},
		{"ResourceNotFoundException", http.StatusNotFound},
		{"ModelNotFoundException", http.StatusNotFound},
		{"InternalServerError", http.StatusInternalServerError},
		{"ModelTimeoutException", http.StatusInternalServerError},
		{"SomethingNeverSeenBefore", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.errorCode, func(t *testing.T) {
			awsErr := &mockAPIError{code: tc.errorCode, message: "boom"}

			converted := ConvertAWSError(awsErr)
			require.NotNil(t, converted)

			var providerErr *bedrocklab.ProviderError
			require.True(t, errors.As(converted, &providerErr))
			require.Equal(t, tc.expectedStatus, providerErr.StatusCode)
			require.Equal(t, "boom", providerErr.Message)
			require.NotEmpty(t, providerErr.Title)
			require.Equal(t, awsErr, providerErr.Cause)
		})
	}
}

func TestConvertAWSError_GenericError(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection refused")
	converted := ConvertAWSError(plain)

	var providerErr *bedrocklab.ProviderError
	require.True(t, errors.As(converted, &providerErr))
	require.Equal(t, "AWS Error", providerErr.Title)
	require.Equal(t, "connection refused", providerErr.Message)
	require.Zero(t, providerErr.StatusCode)
	require.ErrorIs(t, converted, plain)
}

func TestConvertAWSError_Nil(t *testing.T) {
	t.Parallel()

	require.NoError(t, ConvertAWSError(nil))
}

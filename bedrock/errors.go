package bedrock

import (
	"errors"
	"net/http"

	"github.com/aws/smithy-go"

	"github.com/promptfoundry/bedrocklab"
)

// ConvertAWSError converts AWS SDK errors to bedrocklab.ProviderError,
// mapping AWS error codes to HTTP status codes.
func ConvertAWSError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		statusCode := statusCodeForAWSError(apiErr)
		return &bedrocklab.ProviderError{
			Title:      bedrocklab.ErrorTitleForStatusCode(statusCode),
			Message:    apiErr.ErrorMessage(),
			Cause:      err,
			StatusCode: statusCode,
		}
	}

	return &bedrocklab.ProviderError{
		Title:   "AWS Error",
		Message: err.Error(),
		Cause:   err,
	}
}

// statusCodeForAWSError maps AWS error codes to HTTP status codes.
func statusCodeForAWSError(apiErr smithy.APIError) int {
	switch apiErr.ErrorCode() {
	// Authentication errors (401)
	case "UnrecognizedClientException",
		"InvalidSignatureException",
		"ExpiredTokenException",
		"InvalidAccessKeyId",
		"InvalidToken",
		"AccessDeniedException":
		return http.StatusUnauthorized

	// Throttling errors (429)
	case "ThrottlingException",
		"TooManyRequestsException",
		"ProvisionedThroughputExceededException",
		"RequestLimitExceeded",
		"Throttling":
		return http.StatusTooManyRequests

	// Validation errors (400)
	case "ValidationException",
		"InvalidParameterException",
		"InvalidRequestException",
		"MissingParameter",
		"InvalidInput",
		"BadRequestException":
		return http.StatusBadRequest

	// Service errors (500)
	case "InternalServerError",
		"ServiceUnavailableException",
		"InternalFailure",
		"ServiceException",
		"ModelErrorException",
		"ModelTimeoutException":
		return http.StatusInternalServerError

	// Resource not found (404)
	case "ResourceNotFoundException",
		"ModelNotFoundException",
		"NotFoundException":
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

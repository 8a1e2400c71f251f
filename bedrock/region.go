package bedrock

import (
	"strings"
)

// applyRegionPrefix adds the cross-region inference profile prefix to the
// model ID if not already present. The prefix is the first two characters of
// the region followed by a dot; an invalid region defaults to "us.".
// A model ID that already carries a region prefix is returned unchanged.
func applyRegionPrefix(modelID, region string) string {
	if len(region) < 2 {
		region = "us-east-1"
	}

	prefix := region[:2] + "."

	if strings.HasPrefix(modelID, prefix) {
		return modelID
	}

	// Region prefixes are always two lowercase letters followed by a dot.
	// Don't stack a second prefix on top of an existing one.
	if len(modelID) >= 3 && modelID[2] == '.' && isLowercaseLetters(modelID[:2]) {
		return modelID
	}

	return prefix + modelID
}

// isNovaModel reports whether the model ID, with or without a region
// prefix, names an Amazon Nova model.
func isNovaModel(modelID string) bool {
	return strings.Contains(modelID, "amazon.nova")
}

// isLowercaseLetters checks if a string contains only lowercase letters.
func isLowercaseLetters(s string) bool {
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

package kurir

import "fmt"

// Known transitional option keys. Each must carry a bool when present.
var transitionalKeys = []string{
	"silentJSONParsing",
	"forcedJSONParsing",
	"clarifyTimeoutError",
}

// validateTransitional checks the transitional option bag before a dispatch
// starts. Known keys must be booleans; the first violation is reported as a
// Validation error naming the key. Unknown keys are tolerated.
func validateTransitional(transitional map[string]any) error {
	if len(transitional) == 0 {
		return nil
	}

	for _, key := range transitionalKeys {
		value, present := transitional[key]
		if !present {
			continue
		}
		if _, ok := value.(bool); !ok {
			return &ClientError{
				Type:    ErrorTypeValidation,
				Message: fmt.Sprintf("transitional option %s must be a bool, got %T", key, value),
				Key:     key,
			}
		}
	}
	return nil
}

package security

// Category partitions errors for user-facing translation.
type Category string

// Error categories used across the service.
const (
	CategoryValidation     Category = "VALIDATION"
	CategoryAuthentication Category = "AUTHENTICATION"
	CategoryAuthorization  Category = "AUTHORIZATION"
	CategoryDatabase       Category = "DATABASE"
	CategoryNetwork        Category = "NETWORK"
	CategorySecurity       Category = "SECURITY"
	CategorySystem         Category = "SYSTEM"
)

// Guidance is the user-facing rendering of an error: a stable message, a
// recoverability flag and ordered remediation steps. Internal detail is never
// included.
type Guidance struct {
	Message     string   `json:"message"`
	Recoverable bool     `json:"recoverable"`
	Suggestions []string `json:"suggestions"`
}

var categoryOverrides = map[Category]map[int]Guidance{
	CategoryAuthentication: {
		401: {
			Message:     "Your session has expired or the credentials are invalid.",
			Recoverable: true,
			Suggestions: []string{"Sign in again", "Check your email and password"},
		},
	},
	CategoryValidation: {
		422: {
			Message:     "The submitted data failed validation.",
			Suggestions: []string{"Review the highlighted fields", "Correct the values and resubmit"},
		},
	},
	CategoryDatabase: {
		500: {
			Message:     "A temporary storage problem interrupted the request.",
			Recoverable: true,
			Suggestions: []string{"Retry in a few seconds", "Contact support if the problem persists"},
		},
		503: {
			Message:     "The data store is briefly unavailable.",
			Recoverable: true,
			Suggestions: []string{"Retry in a few seconds"},
		},
	},
	CategorySecurity: {
		403: {
			Message:     "The request was blocked by security policy.",
			Suggestions: []string{"Remove unexpected characters from the request", "Contact support if you believe this is a mistake"},
		},
	},
	CategoryNetwork: {
		504: {
			Message:     "An upstream service did not respond in time.",
			Recoverable: true,
			Suggestions: []string{"Retry the request"},
		},
	},
}

var statusDefaults = map[int]Guidance{
	400: {
		Message:     "The request could not be understood.",
		Recoverable: true,
		Suggestions: []string{"Check the request format and try again"},
	},
	401: {
		Message:     "Authentication is required.",
		Recoverable: true,
		Suggestions: []string{"Sign in and retry"},
	},
	403: {
		Message:     "You do not have permission to perform this action.",
		Suggestions: []string{"Contact an administrator for access"},
	},
	404: {
		Message:     "The requested resource was not found.",
		Suggestions: []string{"Check the identifier and try again"},
	},
	422: {
		Message:     "The submitted data failed validation.",
		Suggestions: []string{"Correct the values and resubmit"},
	},
	429: {
		Message:     "Too many requests. Please slow down.",
		Recoverable: true,
		Suggestions: []string{"Wait for the rate limit window to reset"},
	},
	500: {
		Message:     "Something went wrong on our side.",
		Recoverable: true,
		Suggestions: []string{"Retry shortly", "Contact support if the problem persists"},
	},
	503: {
		Message:     "The service is temporarily unavailable.",
		Recoverable: true,
		Suggestions: []string{"Retry shortly"},
	},
}

var genericGuidance = Guidance{
	Message:     "The request could not be completed.",
	Suggestions: []string{"Retry shortly", "Contact support if the problem persists"},
}

// Translate maps an error category and HTTP status to user-facing guidance.
// Category-specific overrides take precedence over per-status defaults.
// Responses with status 403, 404 or 422 are never recoverable.
func Translate(category Category, status int) Guidance {
	guidance, ok := categoryOverrides[category][status]
	if !ok {
		guidance, ok = statusDefaults[status]
		if !ok {
			guidance = genericGuidance
		}
	}

	switch status {
	case 403, 404, 422:
		guidance.Recoverable = false
	}

	if category == CategoryDatabase && status >= 500 {
		guidance.Recoverable = true
	}
	if category == CategoryAuthentication && status == 401 {
		guidance.Recoverable = true
	}

	return guidance
}

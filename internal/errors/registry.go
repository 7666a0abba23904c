package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// Error codes.
const (
	CodePathResolution   = "E001"
	CodeReadOnly         = "E002"
	CodeCallbackFailed   = "E003"
	CodeUnknownMethod    = "E004"
	CodeNotMapping       = "E005"
	CodeEmptyPath        = "E006"
	CodeUnknownDirective = "E020"
	CodeInvalidDirective = "E021"
	CodeElementNotFound  = "E022"
	CodeTemplateParse    = "E023"
	CodeProtocol         = "E060"
	CodeConfigNotFound   = "E080"
	CodeConfigSyntax     = "E081"
	CodeConfigInvalid    = "E082"
	CodeExpression       = "E083"
	CodeSourceNotFound   = "E090"
	CodeSourceFetch      = "E091"
	CodeEventScript      = "E100"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E019)
	// ============================================

	CodePathResolution: {
		Category:   CategoryRuntime,
		Message:    "Path does not resolve",
		Detail:     "An intermediate segment of a dotted path is missing or is not an object.",
		Suggestion: "Check the path against the data, or give the parent a default value.",
		DocURL:     "https://vbind.dev/docs/errors/E001",
	},
	CodeReadOnly: {
		Category:   CategoryRuntime,
		Message:    "Property is read-only",
		Detail:     "Computed properties are derived from data and cannot be written.",
		Suggestion: "Write to the data the computed property reads instead.",
		DocURL:     "https://vbind.dev/docs/errors/E002",
	},
	CodeCallbackFailed: {
		Category: CategoryRuntime,
		Message:  "Binding update failed",
		Detail:   "A tracker callback returned an error or panicked. Other subscribers were still notified.",
		DocURL:   "https://vbind.dev/docs/errors/E003",
	},
	CodeUnknownMethod: {
		Category:   CategoryRuntime,
		Message:    "Method not found",
		Detail:     "An event directive calls a method that is not defined.",
		Suggestion: "Define the method under \"methods\" in vbind.json.",
		DocURL:     "https://vbind.dev/docs/errors/E004",
	},
	CodeNotMapping: {
		Category: CategoryRuntime,
		Message:  "Data root is not an object",
		Detail:   "The data tree must be a JSON object at the top level.",
		DocURL:   "https://vbind.dev/docs/errors/E005",
	},
	CodeEmptyPath: {
		Category: CategoryRuntime,
		Message:  "Empty path",
		Detail:   "A directive or interpolation slot has no expression.",
		DocURL:   "https://vbind.dev/docs/errors/E006",
	},

	// ============================================
	// Template Errors (E020-E039)
	// ============================================

	CodeUnknownDirective: {
		Category:   CategoryTemplate,
		Message:    "Unknown directive",
		Detail:     "The attribute carries the directive prefix but names no registered directive.",
		Suggestion: "Use one of v-model, v-on, v-text, v-html or v-bind.",
		DocURL:     "https://vbind.dev/docs/errors/E020",
	},
	CodeInvalidDirective: {
		Category: CategoryTemplate,
		Message:  "Invalid directive",
		Detail:   "The directive is missing a required modifier or expression.",
		DocURL:   "https://vbind.dev/docs/errors/E021",
	},
	CodeElementNotFound: {
		Category:   CategoryTemplate,
		Message:    "Mount element not found",
		Detail:     "The selector did not match any element in the template.",
		Suggestion: "Check \"selector\" in vbind.json.",
		DocURL:     "https://vbind.dev/docs/errors/E022",
	},
	CodeTemplateParse: {
		Category: CategoryTemplate,
		Message:  "Template could not be parsed",
		DocURL:   "https://vbind.dev/docs/errors/E023",
	},

	// ============================================
	// Protocol Errors (E060-E079)
	// ============================================

	CodeProtocol: {
		Category: CategoryProtocol,
		Message:  "Invalid live message",
		Detail:   "A message received over the live connection could not be decoded or applied.",
		DocURL:   "https://vbind.dev/docs/errors/E060",
	},

	// ============================================
	// Config Errors (E080-E089)
	// ============================================

	CodeConfigNotFound: {
		Category:   CategoryConfig,
		Message:    "vbind.json not found",
		Suggestion: "Create a vbind.json or pass --template and --data.",
		DocURL:     "https://vbind.dev/docs/errors/E080",
	},
	CodeConfigSyntax: {
		Category: CategoryConfig,
		Message:  "Invalid JSON in config",
		DocURL:   "https://vbind.dev/docs/errors/E081",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		DocURL:   "https://vbind.dev/docs/errors/E082",
	},
	CodeExpression: {
		Category: CategoryConfig,
		Message:  "Invalid expression",
		Detail:   "A computed or method expression failed to compile.",
		DocURL:   "https://vbind.dev/docs/errors/E083",
	},

	// ============================================
	// Source Errors (E090-E099)
	// ============================================

	CodeSourceNotFound: {
		Category: CategorySource,
		Message:  "Source not found",
		DocURL:   "https://vbind.dev/docs/errors/E090",
	},
	CodeSourceFetch: {
		Category:   CategorySource,
		Message:    "Source fetch failed",
		Detail:     "The object could not be read from S3.",
		Suggestion: "Check AWS_REGION and credentials in the environment.",
		DocURL:     "https://vbind.dev/docs/errors/E091",
	},

	// ============================================
	// CLI Errors (E100-E119)
	// ============================================

	CodeEventScript: {
		Category: CategoryCLI,
		Message:  "Invalid event script",
		Detail:   "An event script is a JSON list of {\"selector\", \"type\", \"value\"} objects.",
		DocURL:   "https://vbind.dev/docs/errors/E100",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

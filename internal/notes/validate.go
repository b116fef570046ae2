package notes

import "strings"

// Validation rule messages. These strings are part of the API contract and
// must not be reworded.
const (
	MsgTitleRequired       = "Title is required"
	MsgCategoryInvalid     = "Category must be one of: work, personal, ideas"
	MsgPriorityInvalid     = "Priority must be one of: high, medium, low"
	MsgDescriptionRequired = "Description is required"
)

// Input is a raw candidate payload. Fields are untyped so that missing,
// null, or wrong-typed JSON values flow into the validation messages
// instead of failing at decode time.
type Input struct {
	Title       any `json:"title"`
	Category    any `json:"category"`
	Priority    any `json:"priority"`
	Description any `json:"description"`
}

// Validate checks the payload against all rules in a single pass and returns
// one message per violated rule, in fixed order: title, category, priority,
// description. Whitespace-only strings count as absent. An empty result
// means the payload is acceptable for create and update.
func (in Input) Validate() []string {
	var errs []string

	if title, ok := in.Title.(string); !ok || strings.TrimSpace(title) == "" {
		errs = append(errs, MsgTitleRequired)
	}
	if category, ok := in.Category.(string); !ok || !Category(category).Valid() {
		errs = append(errs, MsgCategoryInvalid)
	}
	if priority, ok := in.Priority.(string); !ok || !Priority(priority).Valid() {
		errs = append(errs, MsgPriorityInvalid)
	}
	if description, ok := in.Description.(string); !ok || strings.TrimSpace(description) == "" {
		errs = append(errs, MsgDescriptionRequired)
	}

	return errs
}

// Fields converts a validated payload into the trimmed replacement field
// set. Title and description are trimmed here, after validation: rules
// judge the raw value, the store receives the trimmed one. Calling Fields
// on a payload that failed Validate yields zero values for the bad fields.
func (in Input) Fields() Fields {
	title, _ := in.Title.(string)
	category, _ := in.Category.(string)
	priority, _ := in.Priority.(string)
	description, _ := in.Description.(string)

	return Fields{
		Title:       strings.TrimSpace(title),
		Category:    Category(category),
		Priority:    Priority(priority),
		Description: strings.TrimSpace(description),
	}
}

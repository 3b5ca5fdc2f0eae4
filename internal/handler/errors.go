package handler

// emptyPromptError signals a request whose prompt field is missing or empty.
type emptyPromptError struct{}

func (emptyPromptError) Error() string { return "No prompt provided" }

// IsEmptyPrompt reports whether err indicates a missing/empty prompt.
func IsEmptyPrompt(err error) bool {
	_, ok := err.(emptyPromptError)
	return ok
}

// malformedInputError signals a request body that failed JSON decoding.
type malformedInputError struct{ msg string }

func (e malformedInputError) Error() string { return e.msg }

// IsMalformedInput reports whether err indicates an undecodable request body.
func IsMalformedInput(err error) bool {
	_, ok := err.(malformedInputError)
	return ok
}

package slackchat

// Export private functions for testing
var (
	ToStandardUser    = toStandardUser
	ToStandardChannel = toStandardChannel
	ToStandardMessage = toStandardMessage
	ToAttachment      = toAttachment
	ParseMessageTS    = parseMessageTS
	SuggestionFor     = suggestionFor
)

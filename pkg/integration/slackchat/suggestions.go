package slackchat

// providerSuggestions maps provider rejection codes to remediation
// hints surfaced in error.details. The mapping is a pure lookup table;
// extend it per provider code, never with branching logic.
var providerSuggestions = map[string]string{
	"not_in_channel":    "Invite the app to the channel before sending (/invite in Slack).",
	"channel_not_found": "Check the channel ID or name; the app can only see channels it has access to.",
	"access_denied":     "The connected workspace denied the call. Review the app's permission scopes.",
	"account_inactive":  "The authorizing account was deactivated. Reconnect with an active account.",
	"token_expired":     "The connection's token expired. Re-authorize the connection in the connector dashboard.",
	"restricted_action": "A workspace admin has restricted this action for the app.",
}

// genericSuggestion covers provider codes not in the table.
const genericSuggestion = "Check the provider error code against the Slack Web API documentation."

// suggestionFor returns the remediation hint for a provider rejection
// code.
func suggestionFor(code string) string {
	if s, ok := providerSuggestions[code]; ok {
		return s
	}
	return genericSuggestion
}

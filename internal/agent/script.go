package agent

import "fmt"

// Scripted lines the voice layer speaks verbatim. Kept in one place so the
// receptionist's register stays consistent.

// Greeting opens every call.
const Greeting = "Thank you for calling! This is the virtual front desk. How can I help you today?"

// HoldNotice is spoken right before an escalation puts the caller on hold.
const HoldNotice = "I'm checking with my supervisor. Please hold for just a moment."

// CreateFailureMessage is spoken when the help request itself could not be
// filed.
const CreateFailureMessage = "I apologize, I'm unable to reach my supervisor at the moment. " +
	"Please call us back shortly, or I can help with another question."

// SupervisorRelay wraps a supervisor's answer for the caller.
func SupervisorRelay(answer string) string {
	return fmt.Sprintf("My supervisor confirmed: %s. Is there anything else I can help you with?", answer)
}

// TimeoutMessage promises a callback when the supervisor did not answer in
// time. An unknown phone number degrades to a generic promise.
func TimeoutMessage(callerPhone string) string {
	if callerPhone == "" || callerPhone == UnknownCaller {
		return "I apologize, my supervisor is assisting another client right now. " +
			"I've noted your question and we'll call you back within the hour. " +
			"Is there anything else I can help you with today?"
	}
	return fmt.Sprintf("I apologize, my supervisor is assisting another client right now. "+
		"I've noted your question and we'll call you back at %s within the hour. "+
		"Is there anything else I can help you with today?", callerPhone)
}

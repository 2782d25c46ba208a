package services

// Publisher publishes fire-and-forget notification events to the message
// queue. Services treat a nil Publisher and a failed publish the same way:
// log and move on. Notifications must never fail the action that triggered
// them.
type Publisher interface {
	Publish(routingKey string, body []byte) error
}
